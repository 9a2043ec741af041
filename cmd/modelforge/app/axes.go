package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelforge/modelforge/variant"
)

// NewAxesCommand creates the axes command, which documents the available
// configuration axes and their legal values.
func NewAxesCommand(globalOpts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "axes",
		Short: "List the configuration axes and their legal values",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			reg := variant.DefaultRegistry()
			for _, name := range reg.Axes() {
				axis := reg.Axis(name)
				fmt.Fprintf(out, "%s", name)
				if axis.Parent != "" {
					fmt.Fprintf(out, " (depends on %s)", axis.Parent)
				}
				if axis.Free {
					fmt.Fprint(out, " (free identifier)")
				}
				fmt.Fprintln(out)
				parents := make([]string, 0, len(axis.Values))
			for parent := range axis.Values {
				parents = append(parents, parent)
			}
			slices.Sort(parents)
			for _, parent := range parents {
					prefix := "  "
					if parent != "" {
						prefix = fmt.Sprintf("  %s=%s: ", axis.Parent, parent)
					}
					switch {
					case axis.Free:
						fmt.Fprintf(out, "%sany value, default %s\n", prefix, axis.Defaults[parent])
					default:
						fmt.Fprintf(out, "%s%s\n", prefix, strings.Join(axis.Values[parent], " | "))
					}
				}
			}
			return nil
		},
	}
}
