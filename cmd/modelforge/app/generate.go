package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modelforge/modelforge"
	"github.com/modelforge/modelforge/compiler/gen"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	*GlobalOptions

	// ConfigFile is the YAML file holding axis values.
	ConfigFile string

	// Set holds axis values given on the command line; they win over the
	// config file.
	Set map[string]string

	// Target is the directory artifacts are emitted under.
	Target string

	// Overwrite allows replacing existing files.
	Overwrite bool

	// Watch keeps the process running and regenerates whenever the config
	// file changes. Watching implies overwriting.
	Watch bool

	// Fragments overrides the embedded fragment tree with a directory,
	// for iterating on fragments without rebuilding the binary.
	Fragments string
}

func (o *GenerateOptions) genOptions(overwrite bool) ([]gen.Option, error) {
	genOpts := []gen.Option{
		gen.WithTarget(o.Target),
		gen.WithOverwrite(overwrite),
	}
	if o.Fragments != "" {
		store, err := gen.NewStoreFS(os.DirFS(o.Fragments), ".")
		if err != nil {
			return nil, err
		}
		genOpts = append(genOpts, gen.WithStore(store))
	}
	return genOpts, nil
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &GenerateOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the serving scaffold for a configuration",
		Example: `  # Defaults: flask + sklearn + joblib
  modelforge generate --target ./my-stack

  # Explicit axes on the command line
  modelforge generate -t ./my-stack --set modelServer=fastapi --set framework=xgboost

  # Axes from a file, regenerating on every edit
  modelforge generate -t ./my-stack -c forge.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				if opts.ConfigFile == "" {
					return errors.New("--watch needs --config, there is nothing else to watch")
				}
				return runWatch(cmd.Context(), opts)
			}
			return runGenerate(cmd, opts, opts.Overwrite)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML file with axis values")
	cmd.Flags().StringToStringVar(&opts.Set, "set", nil, "axis value as axis=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Target, "target", "t", ".", "directory to emit artifacts under")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "replace existing files")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "regenerate whenever the config file changes")
	cmd.Flags().StringVar(&opts.Fragments, "fragments", "", "directory overriding the embedded fragment tree")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions, overwrite bool) error {
	logger := opts.Logger()
	raw, err := loadAxes(opts.ConfigFile, opts.Set)
	if err != nil {
		return err
	}

	genOpts, err := opts.genOptions(overwrite)
	if err != nil {
		return err
	}
	g, err := gen.Generate(cmd.Context(), raw, genOpts...)
	if err != nil {
		if modelforge.IsConflictError(err) {
			return fmt.Errorf("%w\nre-run with --overwrite to replace them", err)
		}
		return err
	}

	logger.Info("generation complete",
		zap.String("request", g.ID.String()),
		zap.Any("config", g.Config),
		zap.Int("files", len(g.Paths)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s under %s:\n", countNoun(len(g.Paths), "file"), opts.Target)
	for _, p := range g.Paths {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
	}
	return nil
}

// runWatch regenerates on every change to the config file until the
// process is interrupted. Regeneration always overwrites: the target is
// owned by the watch session. A failing configuration is reported and the
// previous output is left in place.
func runWatch(ctx context.Context, opts *GenerateOptions) error {
	logger := opts.Logger()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(opts.ConfigFile)
	if err != nil {
		return err
	}
	// Watch the directory, not the file: editors replace files on save and
	// the watch would die with the old inode.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	regenerate := func() {
		raw, err := loadAxes(opts.ConfigFile, opts.Set)
		if err != nil {
			logger.Error("config unreadable", zap.Error(err))
			return
		}
		genOpts, err := opts.genOptions(true)
		if err != nil {
			logger.Error("fragment directory unreadable", zap.Error(err))
			return
		}
		g, err := gen.Generate(ctx, raw, genOpts...)
		if err != nil {
			reportFailure(logger, err)
			return
		}
		logger.Info("regenerated",
			zap.String("request", g.ID.String()),
			zap.Int("files", len(g.Paths)),
		)
	}

	regenerate()
	logger.Info("watching", zap.String("config", target))

	const debounce = 200 * time.Millisecond
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != target || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			regenerate()
		}
	}
}

// reportFailure logs a generation failure with the fields of its error
// kind, so watch sessions show what to fix without stopping.
func reportFailure(logger *zap.Logger, err error) {
	var (
		compatErr *modelforge.CompatibilityError
		consErr   *modelforge.ConsistencyError
	)
	switch {
	case errors.As(err, &compatErr):
		logger.Error("configuration rejected",
			zap.Strings("rules", compatErr.Rules()),
			zap.String("detail", countNoun(len(compatErr.Violations), "violation")),
		)
	case errors.As(err, &consErr):
		logger.Error("rendered artifacts inconsistent",
			zap.String("detail", countNoun(len(consErr.Findings), "finding")),
			zap.Error(err),
		)
	default:
		logger.Error("generation failed", zap.Error(err))
	}
}
