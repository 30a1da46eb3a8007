package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/uidoc/pkg/docgen"
	"github.com/gnana997/uidoc/pkg/watch"
)

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Regenerate the reference whenever the catalog or preamble changes",
		Long: `Generate once, then watch the catalog, the preamble override and any
--include globs and regenerate after each burst of changes. A failed
regeneration is logged and the previous output is kept. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx)
		},
	}
	cmd.Flags().Int("debounce-ms", 200, "quiet period after the last change before regenerating")
	cmd.Flags().StringSlice("include", nil, "extra doublestar globs that trigger a regeneration")
	a.bind(cmd.Flags().Lookup("debounce-ms"), "watch.debounce_ms")
	a.bind(cmd.Flags().Lookup("include"), "watch.include")
	return cmd
}

func (a *app) runWatch(ctx context.Context) error {
	cfg := a.docgenConfig()
	regenerate := func(ctx context.Context) error {
		_, err := docgen.Generate(ctx, cfg, a.logger)
		return err
	}

	// A broken catalog at startup is reported but still watched, so fixing
	// the file produces the first document.
	if err := regenerate(ctx); err != nil {
		a.logger.Error("initial generation failed", "error", describeError(err))
	}
	return a.watchFiles(ctx, cfg, regenerate)
}

// watchFiles blocks until ctx is done, calling regenerate after changes.
func (a *app) watchFiles(ctx context.Context, cfg docgen.Config, regenerate watch.RegenerateFunc) error {
	opts := watch.Options{
		DebounceMs: a.v.GetInt("watch.debounce_ms"),
		Include:    a.v.GetStringSlice("watch.include"),
	}
	if cfg.WritesFile() {
		opts.Output = cfg.OutputPath
	}
	w, err := watch.New(
		[]string{cfg.CatalogPath, cfg.PreamblePath},
		opts,
		regenerate,
		a.logger,
	)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
