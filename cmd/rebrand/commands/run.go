package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rebrand/cmd/rebrand/opts"
	"github.com/walteh/rebrand/pkg/operation"
	"github.com/walteh/rebrand/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// runPhases runs ops in order and prints the summary table, even when a phase
// fails part way.
func runPhases(ctx context.Context, o *opts.RootOpts, ops ...operation.Operation) error {
	if o.Engine.Gated() {
		o.Console.Infof("brand name is %q, nothing to rebrand", o.Brand.Name)
		return nil
	}

	results, runErr := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, ops...)

	if err := printSummary(o, results); err != nil {
		return errors.Errorf("printing summary: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	failed := 0
	for _, r := range results {
		failed += r.Summary.Failed
	}
	if failed > 0 {
		return errors.Errorf("%d files failed", failed)
	}

	if o.Config.DryRun {
		o.Console.Success("dry run complete, nothing written")
		return nil
	}

	if err := recordState(ctx, o, results); err != nil {
		return errors.Errorf("recording state: %w", err)
	}
	o.Console.Successf("rebranded to %s", o.Brand.Name)
	return nil
}

// recordState merges the run into the lock file. A brand change starts a
// fresh record.
func recordState(ctx context.Context, o *opts.RootOpts, results []operation.PhaseResult) error {
	if o.LockFile == "" {
		return nil
	}

	st, err := state.LoadState(ctx, o.LockFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		st = state.New(o.Brand)
	case err != nil:
		return err
	case st.BrandHash != state.BrandHash(o.Brand):
		st = state.New(o.Brand)
	}

	for _, r := range results {
		st.PutPhase(r.Name, r.Dir, r.Files)
	}
	return state.WriteState(ctx, o.LockFile, st)
}

func printSummary(o *opts.RootOpts, results []operation.PhaseResult) error {
	if len(results) == 0 {
		return nil
	}

	data := pterm.TableData{{"phase", "dir", "rebranded", "unchanged", "skipped", "failed", "replacements", "time"}}
	for _, r := range results {
		data = append(data, []string{
			r.Name,
			r.Dir,
			strconv.Itoa(r.Summary.Rebranded),
			strconv.Itoa(r.Summary.Unchanged),
			strconv.Itoa(r.Summary.Skipped),
			strconv.Itoa(r.Summary.Failed),
			strconv.Itoa(r.Summary.Replacements),
			r.Duration.Round(time.Millisecond).String(),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(o.Out)
	fmt.Fprintln(o.Out, table)
	return nil
}

// dirArg returns the optional directory argument.
func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
