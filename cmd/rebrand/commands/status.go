package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/rebrand/cmd/rebrand/opts"
	"github.com/walteh/rebrand/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check if the tree needs to be rebranded",
		Long: `Status compares the tree with the state file written by the last run.
It will:
1. Load the state file
2. Compare the recorded brand with the resolved one
3. Compare recorded checksums with the files on disk
4. Report if a new run is needed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if o.LockFile == "" {
				return errors.New("state file is disabled")
			}

			st, err := state.LoadState(ctx, o.LockFile)
			if errors.Is(err, os.ErrNotExist) {
				o.Console.Warningf("no state at %s, tree has not been rebranded", o.LockFile)
				if check {
					return errors.New("tree needs to be rebranded")
				}
				return nil
			}
			if err != nil {
				return errors.Errorf("loading state: %w", err)
			}

			report, err := st.Check(ctx, o.Brand)
			if err != nil {
				return errors.Errorf("checking state: %w", err)
			}

			if report.UpToDate() {
				o.Console.Successf("up to date with %s (%s)", o.Brand.Name, st.LastUpdated.Format("2006-01-02 15:04:05"))
				return nil
			}

			if report.BrandChanged {
				o.Console.Warningf("brand changed from %s to %s", st.Brand.Name, o.Brand.Name)
			}
			for _, path := range report.Modified {
				o.Console.Warningf("modified since last run: %s", path)
			}
			for _, path := range report.Missing {
				o.Console.Warningf("missing since last run: %s", path)
			}

			if check {
				return errors.New("tree needs to be rebranded")
			}
			o.Console.Info("tree needs to be rebranded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "exit non-zero when a run is needed")

	return cmd
}
