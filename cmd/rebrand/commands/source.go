package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rebrand/cmd/rebrand/opts"
	"github.com/walteh/rebrand/pkg/operation"
)

// NewSourceCmd creates the source command
func NewSourceCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source [dir]",
		Short: "Rebrand source modules before compilation",
		Long: `Source walks the source directory and rewrites brand tokens in every
.ts, .js, .svelte and .json module, plus the backend description in main.py.
Files under node_modules are never touched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := operation.NewSourceOperation(o.SourceOptions(dirArg(args)))
			return runPhases(cmd.Context(), o, op)
		},
	}

	return cmd
}
