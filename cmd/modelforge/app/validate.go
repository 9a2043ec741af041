package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelforge/modelforge/compiler/gen"
	"github.com/modelforge/modelforge/variant"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	*GlobalOptions

	// ConfigFile is the YAML file holding axis values.
	ConfigFile string

	// Set holds axis values given on the command line.
	Set map[string]string
}

// NewValidateCommand creates the validate command. It runs the
// configuration through normalization and the compatibility rules without
// rendering anything, and prints the fully resolved variant on success.
func NewValidateCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &ValidateOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration without generating anything",
		Example: `  modelforge validate --set framework=tensorflow
  modelforge validate -c forge.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := loadAxes(opts.ConfigFile, opts.Set)
			if err != nil {
				return err
			}
			cfg, err := gen.Validate(raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid:")
			for _, axis := range variant.DefaultRegistry().Axes() {
				if cfg.Has(axis) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", axis, cfg.Value(axis))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML file with axis values")
	cmd.Flags().StringToStringVar(&opts.Set, "set", nil, "axis value as axis=value (repeatable)")

	return cmd
}
