package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rebrand/cmd/rebrand/opts"
	"github.com/walteh/rebrand/pkg/operation"
)

// NewBuildCmd creates the build command
func NewBuildCmd(o *opts.RootOpts) *cobra.Command {
	var sourceDir, assetsDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the source phase, then the assets phase",
		Long: `Build runs both phases in order:
1. source: rewrite source modules
2. assets: rewrite generated HTML
The assets phase only runs when the source phase succeeded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhases(cmd.Context(), o,
				operation.NewSourceOperation(o.SourceOptions(sourceDir)),
				operation.NewAssetOperation(o.AssetOptions(assetsDir)),
			)
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source-dir", "", "override the source directory")
	cmd.Flags().StringVar(&assetsDir, "assets-dir", "", "override the assets directory")

	return cmd
}
