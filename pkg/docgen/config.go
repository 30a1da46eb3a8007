package docgen

import (
	"errors"
	"os"

	"github.com/gnana997/uidoc/pkg/render"
)

// Config describes one generation run.
type Config struct {
	// CatalogPath is the JSON or YAML catalog to read.
	CatalogPath string

	// OutputPath is the destination document. Empty or "-" skips the write
	// and leaves the document in Result.Document.
	OutputPath string

	// Language tags every snippet fence and selects the snippet grammar.
	Language string

	// PreamblePath optionally overrides the built-in preamble with a file.
	PreamblePath string

	Sort           bool
	EscapeAllCells bool
	CheckSnippets  bool
	Verify         bool
}

// DefaultConfig mirrors the CLI defaults.
func DefaultConfig() Config {
	return Config{
		Language:       render.DefaultLanguage,
		EscapeAllCells: true,
	}
}

// Validate reports configuration problems that would make a run pointless.
func (c Config) Validate() error {
	if c.CatalogPath == "" {
		return errors.New("catalog path is required")
	}
	if c.OutputPath != "" && c.OutputPath == c.CatalogPath {
		return errors.New("output path must differ from the catalog path")
	}
	return nil
}

// WritesFile reports whether a run replaces OutputPath.
func (c Config) WritesFile() bool {
	return c.OutputPath != "" && c.OutputPath != "-"
}

// renderOptions resolves the renderer options, reading the preamble
// override when one is configured.
func (c Config) renderOptions() (render.Options, error) {
	opts := render.Options{
		Language:       c.Language,
		EscapeAllCells: c.EscapeAllCells,
	}
	if c.PreamblePath != "" {
		data, err := os.ReadFile(c.PreamblePath)
		if err != nil {
			return opts, &PreambleError{Path: c.PreamblePath, Err: err}
		}
		opts.Preamble = string(data)
	}
	return opts, nil
}
