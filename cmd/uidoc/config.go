package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uidoc/pkg/docgen"
	"github.com/gnana997/uidoc/pkg/render"
)

// defaultConfigFile is searched for in the working directory.
const defaultConfigFile = ".uidoc.yaml"

// ProjectConfig mirrors the keys of .uidoc.yaml. It is only used to write
// a starter file; reading goes through viper so env and flags can override.
type ProjectConfig struct {
	Catalog        string      `yaml:"catalog"`
	Output         string      `yaml:"output"`
	Language       string      `yaml:"language"`
	Preamble       string      `yaml:"preamble,omitempty"`
	Sort           bool        `yaml:"sort"`
	EscapeAllCells bool        `yaml:"escape_all_cells"`
	CheckSnippets  bool        `yaml:"check_snippets"`
	Verify         bool        `yaml:"verify"`
	Watch          WatchConfig `yaml:"watch"`
	Serve          ServeConfig `yaml:"serve"`
	Log            LogConfig   `yaml:"log"`
}

type WatchConfig struct {
	DebounceMs int      `yaml:"debounce_ms"`
	Include    []string `yaml:"include"`
}

type ServeConfig struct {
	LogFile   string `yaml:"log_file"`
	CacheSize int    `yaml:"cache_size"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Catalog:        "catalog.json",
		Output:         "components.mdx",
		Language:       render.DefaultLanguage,
		EscapeAllCells: true,
		Watch:          WatchConfig{DebounceMs: 200, Include: []string{}},
		Serve:          ServeConfig{CacheSize: 256},
		Log:            LogConfig{Level: "info", Format: "text"},
	}
}

// writeProjectConfig writes cfg as YAML. It refuses to overwrite an
// existing file unless force is set.
func writeProjectConfig(path string, cfg ProjectConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return docgen.WriteFile(path, string(data))
}

// docgenConfig resolves the generation settings from flags, env and file.
func (a *app) docgenConfig() docgen.Config {
	return docgen.Config{
		CatalogPath:    a.v.GetString("catalog"),
		OutputPath:     a.v.GetString("output"),
		Language:       a.v.GetString("language"),
		PreamblePath:   a.v.GetString("preamble"),
		Sort:           a.v.GetBool("sort"),
		EscapeAllCells: a.v.GetBool("escape_all_cells"),
		CheckSnippets:  a.v.GetBool("check_snippets"),
		Verify:         a.v.GetBool("verify"),
	}
}
