package operation

import (
	"github.com/walteh/rebrand/pkg/text"
)

// 📁 NewSourceOperation creates the pre-transform phase: every selected
// source module under Dir is fed to the engine's TransformText.
func NewSourceOperation(opts Options) *SourceOperation {
	op := &SourceOperation{}
	op.BaseOperation = newBaseOperation(PhaseSource, opts, func(content, path string) text.Result {
		return opts.Engine.Text(content, path)
	}, func(path string) bool {
		return opts.Engine != nil && opts.Engine.Accepts(path)
	})
	return op
}

// SourceOperation rewrites source modules before compilation
type SourceOperation struct {
	BaseOperation
}

// 📦 NewAssetOperation creates the post-bundle phase: every selected
// generated asset under Dir is fed to the engine's TransformAsset.
func NewAssetOperation(opts Options) *AssetOperation {
	op := &AssetOperation{}
	op.BaseOperation = newBaseOperation(PhaseAssets, opts, func(content, path string) text.Result {
		return opts.Engine.Asset(path, content)
	}, func(path string) bool {
		return opts.Engine != nil && !opts.Engine.Gated() && text.IsAssetPath(path)
	})
	return op
}

// AssetOperation rewrites generated HTML after bundling
type AssetOperation struct {
	BaseOperation
}
