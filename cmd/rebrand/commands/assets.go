package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rebrand/cmd/rebrand/opts"
	"github.com/walteh/rebrand/pkg/operation"
)

// NewAssetsCmd creates the assets command
func NewAssetsCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets [dir]",
		Short: "Rebrand generated HTML after bundling",
		Long: `Assets walks the build output and rewrites the page title, the
description meta tag and the home screen title in every generated .html file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := operation.NewAssetOperation(o.AssetOptions(dirArg(args)))
			return runPhases(cmd.Context(), o, op)
		},
	}

	return cmd
}
