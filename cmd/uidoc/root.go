package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gnana997/uidoc/pkg/util"
)

// envPrefix prefixes every environment override, e.g. UIDOC_CATALOG or
// UIDOC_WATCH_DEBOUNCE_MS.
const envPrefix = "UIDOC"

// app carries the per-invocation state shared by all commands. Each root
// command owns its own viper instance.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{v: viper.New(), in: in, out: out, errOut: errOut, logger: util.NopLogger()}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uidoc",
		Short: "Render a UI component catalog into a Markdown/MDX reference",
		Long: `uidoc turns a component catalog (JSON or YAML) into a single
Markdown/MDX reference document that AI code generators can read.

Configuration precedence (highest first):
  1. command-line flags
  2. environment variables (UIDOC_CATALOG, UIDOC_WATCH_DEBOUNCE_MS, ...)
  3. the config file (--config, UIDOC_CONFIG_FILE or ./.uidoc.yaml)
  4. built-in defaults

Quick start:
  uidoc generate --catalog catalog.json --output docs/components.mdx
  uidoc watch                      Regenerate on every catalog change
  uidoc serve                      Serve the reference over MCP stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd.Name() == "init")
		},
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./.uidoc.yaml, can also use UIDOC_CONFIG_FILE)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")

	pf.String("catalog", "catalog.json", "component catalog file (.json, .yaml or .yml)")
	pf.String("output", "components.mdx", `rendered reference file ("-" for stdout)`)
	pf.String("language", "typescript", "language tag for import and example code fences")
	pf.String("preamble", "", "file whose content replaces the built-in preamble")
	pf.Bool("sort", false, "order components by name instead of catalog order")
	pf.Bool("escape-all-cells", true, "escape pipes and newlines in every table cell, not only the type")
	pf.Bool("check-snippets", false, "parse import and example snippets and warn on syntax errors")
	pf.Bool("verify", false, "check the rendered document structure before writing")

	a.bind(pf.Lookup("log-level"), "log.level")
	a.bind(pf.Lookup("log-format"), "log.format")
	for _, name := range []string{"catalog", "output", "language", "preamble", "sort", "escape-all-cells", "check-snippets", "verify"} {
		a.bind(pf.Lookup(name), strings.ReplaceAll(name, "-", "_"))
	}

	cmd.AddCommand(
		a.generateCmd(),
		a.watchCmd(),
		a.serveCmd(),
		a.inspectCmd(),
		a.lintCmd(),
		a.initCmd(),
		a.setupCmd(),
		a.versionCmd(),
	)
	return cmd
}

// bind ties a flag to a config key. Flags only override the key when set.
func (a *app) bind(flag *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// initConfig loads the config file and environment and builds the logger.
// A missing default config file is not an error, a missing explicit one is
// unless allowMissing is set.
func (a *app) initConfig(allowMissing bool) error {
	explicit := a.cfgFile
	if explicit == "" {
		explicit = os.Getenv(envPrefix + "_CONFIG_FILE")
	}
	if explicit != "" {
		a.v.SetConfigFile(explicit)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".uidoc")
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	a.v.SetDefault("watch.debounce_ms", 200)
	a.v.SetDefault("watch.include", []string{})
	a.v.SetDefault("serve.log_file", "")
	a.v.SetDefault("serve.cache_size", 256)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || allowMissing && errors.Is(err, fs.ErrNotExist)
		if !missing || explicit != "" && !allowMissing {
			return fmt.Errorf("read config: %w", err)
		}
	}

	logCfg, err := util.ParseLoggerConfig(a.v.GetString("log.level"), a.v.GetString("log.format"), a.errOut)
	if err != nil {
		return err
	}
	a.logger = util.NewLogger(logCfg)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}
