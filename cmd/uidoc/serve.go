package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uidoc/pkg/docgen"
	mcpserver "github.com/gnana997/uidoc/pkg/mcp"
	"github.com/gnana997/uidoc/pkg/mcplog"
)

func (a *app) serveCmd() *cobra.Command {
	var reload bool
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the rendered reference to AI agents over MCP stdio",
		Long: `Render the catalog and serve it over MCP on stdin/stdout:

  resource uidoc://reference        the full document
  tool get_reference                the full document
  tool list_components              component names and descriptions (JSON)
  tool get_component_reference      one component block

With --watch the catalog is reloaded on change; tool calls keep seeing the
previous document until the new one is complete. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context(), reload)
		},
	}
	cmd.Flags().BoolVar(&reload, "watch", false, "reload the catalog when it changes")
	cmd.Flags().String("log-file", "", "append one JSONL line per tool call to this file")
	cmd.Flags().Int("cache-size", mcpserver.DefaultCacheSize, "number of rendered component blocks to cache")
	a.bind(cmd.Flags().Lookup("log-file"), "serve.log_file")
	a.bind(cmd.Flags().Lookup("cache-size"), "serve.cache_size")
	return cmd
}

func (a *app) runServe(ctx context.Context, reload bool) error {
	mcpserver.Version = version

	cfg := a.docgenConfig()
	cfg.OutputPath = ""

	callLog, err := mcplog.NewLogger(a.v.GetString("serve.log_file"))
	if err != nil {
		return err
	}
	defer callLog.Close()

	srv, err := mcpserver.NewServer(mcpserver.Options{
		CacheSize: a.v.GetInt("serve.cache_size"),
		CallLog:   callLog,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}

	load := func(ctx context.Context) error {
		res, err := docgen.Build(ctx, cfg, a.logger)
		if err != nil {
			return err
		}
		srv.Update(res.Catalog, res.Renderer, res.Document)
		return nil
	}
	if err := load(ctx); err != nil {
		return err
	}

	if reload {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := a.watchFiles(ctx, cfg, load); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("catalog watcher stopped", "error", err)
			}
		}()
	}

	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
