// Package docgen runs the catalog-to-document pipeline: load, optionally
// check snippets, render, optionally verify, and write.
package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnana997/uidoc/pkg/catalog"
	"github.com/gnana997/uidoc/pkg/parser"
	"github.com/gnana997/uidoc/pkg/render"
	"github.com/gnana997/uidoc/pkg/snippet"
)

// Result describes one run. It is returned alongside a *WriteError so the
// rendered document is never lost.
type Result struct {
	Catalog  *catalog.Catalog
	Renderer *render.Renderer
	Document string
	Issues   []snippet.Issue
	Written  bool
	Duration time.Duration
}

// Components returns the number of rendered component blocks.
func (r *Result) Components() int {
	return r.Catalog.Len()
}

// Props returns the total number of property rows.
func (r *Result) Props() int {
	if r.Catalog == nil {
		return 0
	}
	n := 0
	for i := range r.Catalog.Components {
		n += len(r.Catalog.Components[i].Props)
	}
	return n
}

// Build loads and renders without writing. Snippet issues are logged as
// warnings and returned in the Result. A verify failure returns the Result
// together with the *render.VerifyError.
func Build(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat, err := catalog.LoadFile(cfg.CatalogPath, catalog.LoadOptions{Sort: cfg.Sort})
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", "catalog", cfg.CatalogPath, "components", cat.Len())

	opts, err := cfg.renderOptions()
	if err != nil {
		return nil, err
	}
	res := &Result{Catalog: cat, Renderer: render.New(opts)}

	if cfg.CheckSnippets {
		issues, err := checkSnippets(cat, res.Renderer.Options().Language, logger)
		if err != nil {
			return nil, err
		}
		res.Issues = issues
	}

	res.Document = res.Renderer.Render(cat)

	if cfg.Verify {
		if err := res.Renderer.Verify(res.Document, cat); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
	}
	res.Duration = time.Since(start)
	return res, nil
}

// Generate runs Build and then writes the document to cfg.OutputPath when
// WritesFile is true.
func Generate(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	start := time.Now()
	res, err := Build(ctx, cfg, logger)
	if err != nil {
		return res, err
	}

	if cfg.WritesFile() {
		if err := WriteFile(cfg.OutputPath, res.Document); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
		res.Written = true
	}
	res.Duration = time.Since(start)

	logger.Info("reference generated",
		"catalog", cfg.CatalogPath,
		"output", cfg.OutputPath,
		"components", res.Components(),
		"props", res.Props(),
		"bytes", len(res.Document),
		"snippet_issues", len(res.Issues),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func checkSnippets(cat *catalog.Catalog, lang string, logger *slog.Logger) ([]snippet.Issue, error) {
	manager := parser.NewManager(logger, 1)
	defer manager.Close()

	checker := snippet.NewChecker(manager, lang)
	if !checker.Supported() {
		logger.Warn("snippet check skipped: no grammar for language", "language", lang)
		return nil, nil
	}
	issues, err := checker.Check(cat)
	if err != nil {
		return nil, fmt.Errorf("check snippets: %w", err)
	}
	for _, is := range issues {
		logger.Warn("snippet does not parse",
			"component", is.Component,
			"field", is.Field,
			"line", is.Line,
			"column", is.Column,
			"message", is.Message,
		)
	}
	return issues, nil
}
