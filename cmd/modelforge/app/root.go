// Package app implements the modelforge command-line interface. Commands
// are organized cobra-style: a root command carrying the global flags and
// one subcommand per operation.
package app

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	cliName        = "modelforge"
	cliDescription = "Generate SageMaker-ready model serving scaffolds"
)

// GlobalOptions holds options common to all commands.
type GlobalOptions struct {
	// Verbose enables debug-level logging.
	Verbose bool

	logger *zap.Logger
}

// Logger returns the process logger, initialized by the root command.
func (o *GlobalOptions) Logger() *zap.Logger {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o.logger
}

// NewModelForgeCommand creates the root command with all subcommands.
func NewModelForgeCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `modelforge generates a coherent set of model serving artifacts from a
small configuration: pick a model server (flask, fastapi, sglang), a
framework (sklearn, xgboost, tensorflow, sglang) and a model format, and
it emits the serve script, the server launcher, a sample training script
and the matching local test tooling.

Axis values may come from a YAML file (--config), from --set flags, or
both; --set wins. Omitted axes fall back to their documented defaults.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.Encoding = "console"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if opts.Verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		NewGenerateCommand(opts),
		NewValidateCommand(opts),
		NewAxesCommand(opts),
	)

	return cmd
}
