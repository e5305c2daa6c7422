package opts

import (
	"io"

	"github.com/walteh/rebrand/pkg/brand"
	"github.com/walteh/rebrand/pkg/config"
	"github.com/walteh/rebrand/pkg/log"
	"github.com/walteh/rebrand/pkg/operation"
	"github.com/walteh/rebrand/pkg/text"
)

// RootOpts contains shared options used by all commands. It is filled in
// before any subcommand runs.
type RootOpts struct {
	Config  *config.Config
	Brand   brand.Config
	Engine  *text.Engine
	Console *log.Logger
	Out     io.Writer

	// LockFile records the last completed run, empty disables it
	LockFile string
}

// SourceOptions returns the options for the source phase, walking dir when
// set and the configured source directory otherwise.
func (o *RootOpts) SourceOptions(dir string) operation.Options {
	if dir == "" {
		dir = o.Config.Source.Dir
	}
	return operation.Options{
		Engine:      o.Engine,
		Dir:         dir,
		Include:     o.Config.Source.Include,
		Ignore:      o.Config.Source.Ignore,
		Async:       o.Config.Async,
		Concurrency: o.Config.Concurrency,
		DryRun:      o.Config.DryRun,
	}
}

// AssetOptions returns the options for the assets phase.
func (o *RootOpts) AssetOptions(dir string) operation.Options {
	if dir == "" {
		dir = o.Config.Assets.Dir
	}
	return operation.Options{
		Engine:      o.Engine,
		Dir:         dir,
		Include:     o.Config.Assets.Include,
		Async:       o.Config.Async,
		Concurrency: o.Config.Concurrency,
		DryRun:      o.Config.DryRun,
	}
}
