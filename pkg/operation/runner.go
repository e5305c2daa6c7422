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
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/rebrand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📋 PhaseResult is what one phase did
type PhaseResult struct {
	Name     string
	Dir      string
	Summary  status.Summary
	Files    []status.FileInfo
	Duration time.Duration
}

// 🏃 OperationRunner executes phases in order
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
	}
}

// 🏃 Run executes the phases one after another, stopping at the first error.
// Results for the phases that ran are returned either way.
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) ([]PhaseResult, error) {
	results := make([]PhaseResult, 0, len(ops))
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return results, errors.Errorf("operation cancelled: %w", err)
		}

		start := time.Now()
		err := op.Execute(ctx)
		res := PhaseResult{Name: op.Name(), Duration: time.Since(start)}

		if tracked, ok := op.(interface{ Manager() *status.Manager }); ok && tracked.Manager() != nil {
			mgr := tracked.Manager()
			res.Dir = mgr.BaseDir()
			res.Summary = mgr.Summary(ctx)
			res.Files = mgr.ListFiles(ctx)
		}
		results = append(results, res)

		r.logger.Debug().
			Str("phase", res.Name).
			Dur("duration", res.Duration).
			Int("rebranded", res.Summary.Rebranded).
			Int("replacements", res.Summary.Replacements).
			Msg("phase finished")

		if err != nil {
			return results, errors.Errorf("executing %s: %w", op.Name(), err)
		}
	}
	return results, nil
}
