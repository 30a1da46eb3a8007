package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/uidoc/catalogs"
	"github.com/gnana997/uidoc/pkg/docgen"
)

func (a *app) initCmd() *cobra.Command {
	var force, example bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + defaultConfigFile,
		Long: `Write a starter config file holding the effective settings: the built-in
defaults overridden by any flags or UIDOC_* variables given to this
command. With --example the bundled shadcn/ui starter catalog is also
written to the catalog path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				path = defaultConfigFile
			}
			cfg := a.projectConfig()
			if err := writeProjectConfig(path, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

			if example {
				if !force {
					if _, err := os.Stat(cfg.Catalog); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Catalog)
					}
				}
				if err := docgen.WriteFile(cfg.Catalog, string(catalogs.ShadcnJSON)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Catalog)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "also write the bundled shadcn/ui example catalog")
	return cmd
}

// projectConfig snapshots the effective settings.
func (a *app) projectConfig() ProjectConfig {
	cfg := defaultProjectConfig()
	dc := a.docgenConfig()
	cfg.Catalog = dc.CatalogPath
	cfg.Output = dc.OutputPath
	cfg.Language = dc.Language
	cfg.Preamble = dc.PreamblePath
	cfg.Sort = dc.Sort
	cfg.EscapeAllCells = dc.EscapeAllCells
	cfg.CheckSnippets = dc.CheckSnippets
	cfg.Verify = dc.Verify
	cfg.Watch.DebounceMs = a.v.GetInt("watch.debounce_ms")
	if include := a.v.GetStringSlice("watch.include"); len(include) > 0 {
		cfg.Watch.Include = include
	}
	cfg.Serve.LogFile = a.v.GetString("serve.log_file")
	cfg.Serve.CacheSize = a.v.GetInt("serve.cache_size")
	cfg.Log.Level = a.v.GetString("log.level")
	cfg.Log.Format = a.v.GetString("log.format")
	return cfg
}
