// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/walteh/rebrand/pkg/log"
	"github.com/walteh/rebrand/pkg/status"
	"github.com/walteh/rebrand/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏷️ Phase names
const (
	PhaseSource = "source"
	PhaseAssets = "assets"
)

// binarySniffLen is how much of a file is checked for NUL bytes
const binarySniffLen = 8000

// 🎯 Operation is one pipeline phase
type Operation interface {
	// Name returns the phase name
	Name() string
	// Execute runs the phase over its directory
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Engine performs the substitutions
	Engine *text.Engine
	// Dir is the directory walked by the operation
	Dir string
	// Include selects files, as doublestar globs relative to Dir
	Include []string
	// Ignore excludes files and directories, as doublestar globs relative to Dir
	Ignore []string
	// Async processes files concurrently
	Async bool
	// Concurrency bounds the number of files in flight when Async is set
	Concurrency int
	// DryRun computes changes without writing them
	DryRun bool
	// Console receives one line per file, taken from the context when nil
	Console *log.Logger
}

// transformFunc is the engine call an operation makes per file.
type transformFunc func(content, path string) text.Result

// 📦 BaseOperation holds what every phase shares
type BaseOperation struct {
	Options
	Status *status.Manager

	name      string
	transform transformFunc
	accepts   func(path string) bool
}

func newBaseOperation(name string, opts Options, transform transformFunc, accepts func(string) bool) BaseOperation {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return BaseOperation{
		Options:   opts,
		name:      name,
		transform: transform,
		accepts:   accepts,
	}
}

// Name returns the phase name.
func (op *BaseOperation) Name() string {
	return op.name
}

// Manager returns the status of the last Execute, nil before the first run.
func (op *BaseOperation) Manager() *status.Manager {
	return op.Status
}

// 🏃 Execute walks Dir and transforms every selected file
func (op *BaseOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("phase", op.name).Logger()
	ctx = logger.WithContext(ctx)

	if op.Engine == nil {
		return errors.Errorf("engine is required")
	}
	op.Status = status.New(op.Dir, &logger)
	if op.Console == nil {
		op.Console = log.FromContextOrDiscard(ctx)
	}

	files, err := op.collect(ctx)
	if err != nil {
		return errors.Errorf("collecting files: %w", err)
	}
	logger.Debug().Int("files", len(files)).Str("dir", op.Dir).Msg("collected files")

	if op.Console != nil {
		op.Console.StartPhase(ctx, log.PhaseOperation{
			Name:  op.name,
			Dir:   op.Dir,
			Brand: op.Engine.Config().Name,
		})
		defer op.Console.EndPhase(ctx)
	}

	op.Status.StartOperation(ctx, len(files))
	defer op.Status.FinishOperation(ctx)

	if !op.Async {
		for _, file := range files {
			if err := op.processFile(ctx, file); err != nil {
				return errors.Errorf("processing file %s: %w", file, err)
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(op.Concurrency)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := op.processFile(gctx, file); err != nil {
				return errors.Errorf("processing file %s: %w", file, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// 🔍 collect lists the files under Dir selected by Include and not Ignore,
// as slash-separated paths relative to Dir.
func (op *BaseOperation) collect(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(op.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(op.Dir, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if op.ignored(ctx, rel) || op.ignored(ctx, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if op.ignored(ctx, rel) || !op.included(ctx, rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", op.Dir, err)
	}
	return files, nil
}

func (op *BaseOperation) ignored(ctx context.Context, rel string) bool {
	return matchAny(ctx, op.Ignore, rel)
}

func (op *BaseOperation) included(ctx context.Context, rel string) bool {
	return matchAny(ctx, op.Include, rel)
}

func matchAny(ctx context.Context, patterns []string, rel string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// 📄 processFile feeds one file through the engine and persists the result
func (op *BaseOperation) processFile(ctx context.Context, file string) error {
	defer op.Status.Advance(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	if op.accepts != nil && !op.accepts(file) {
		op.track(ctx, file, status.FileInfo{Status: status.StatusSkipped, Reason: "not handled by engine"})
		return nil
	}

	content, err := op.Status.ReadFile(ctx, file)
	if err != nil {
		op.track(ctx, file, status.FileInfo{Status: status.StatusFailed, Error: err})
		return err
	}

	if isBinary(content) {
		op.track(ctx, file, status.FileInfo{Status: status.StatusSkipped, Reason: "binary"})
		return nil
	}

	res := op.transform(string(content), file)
	if !res.Changed {
		op.track(ctx, file, status.FileInfo{
			Status:   status.StatusUnchanged,
			Checksum: status.Checksum(content),
		})
		return nil
	}

	info := status.FileInfo{
		Status:       status.StatusRebranded,
		Size:         int64(len(res.Content)),
		Replacements: res.Replacements,
		Rules:        res.Rules,
		Checksum:     status.Checksum([]byte(res.Content)),
	}

	if op.DryRun {
		info.Diff = preview(string(content), res.Content)
		zerolog.Ctx(ctx).Debug().Str("file", file).Str("diff", info.Diff).Msg("dry run, not writing")
		op.track(ctx, file, info)
		return nil
	}

	if err := op.Status.WriteFileAtomic(ctx, file, []byte(res.Content)); err != nil {
		op.track(ctx, file, status.FileInfo{Status: status.StatusFailed, Error: err})
		return err
	}

	op.track(ctx, file, info)
	return nil
}

// track records the outcome and prints the console line.
func (op *BaseOperation) track(ctx context.Context, file string, info status.FileInfo) {
	info.Phase = op.name
	op.Status.TrackFile(ctx, file, info)

	if op.Console == nil {
		return
	}

	line := log.FileOperation{
		Path:         file,
		Phase:        op.name,
		IsRebranded:  info.Status == status.StatusRebranded,
		IsSkipped:    info.Status == status.StatusSkipped,
		IsFailed:     info.Status == status.StatusFailed,
		DryRun:       op.DryRun,
		Replacements: info.Replacements,
	}
	switch {
	case line.IsRebranded && op.DryRun:
		line.Status = "WOULD CHANGE"
	case line.IsRebranded:
		line.Status = "REBRANDED"
	case line.IsSkipped:
		line.Status = "SKIPPED"
	case line.IsFailed:
		line.Status = "FAILED"
	default:
		line.Status = "no change"
	}

	// skipped files are only interesting when debugging
	if line.IsSkipped && zerolog.Ctx(ctx).GetLevel() > zerolog.DebugLevel {
		return
	}
	op.Console.LogFileOperation(ctx, line)
}

// isBinary reports whether content looks like a non-text file.
func isBinary(content []byte) bool {
	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}

// preview renders the change as a patch for dry runs.
func preview(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}
