package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/rebrand/cmd/rebrand/opts"
	"gitlab.com/tozd/go/errors"
)

// NewShowCmd creates the show command
func NewShowCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved brand and the active rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Console.Header("show")

			location := o.Config.Location()
			if location == "" {
				location = "(defaults)"
			}

			brandTable := pterm.TableData{
				{"key", "value"},
				{"name", o.Brand.Name},
				{"description", o.Brand.Description},
				{"community", o.Brand.Community},
				{"config", location},
				{"gated", strconv.FormatBool(o.Engine.Gated())},
			}
			out, err := pterm.DefaultTable.WithHasHeader().WithData(brandTable).Srender()
			if err != nil {
				return errors.Errorf("rendering brand: %w", err)
			}
			fmt.Fprintln(o.Out, out)
			fmt.Fprintln(o.Out)

			rules := pterm.TableData{{"rule", "pattern", "replace"}}
			for _, r := range o.Engine.Rules() {
				rules = append(rules, []string{r.Name, r.Pattern.String(), strconv.Quote(r.Replace)})
			}
			for _, r := range o.Engine.HTMLRules() {
				rules = append(rules, []string{r.Name, r.Pattern.String(), strconv.Quote(r.Replace)})
			}
			out, err = pterm.DefaultTable.WithHasHeader().WithData(rules).Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}
			fmt.Fprintln(o.Out, out)
			return nil
		},
	}

	return cmd
}
