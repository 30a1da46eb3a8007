// Package parser wraps tree-sitter grammars for parsing catalog code snippets.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uidoc/pkg/util"
)

// ErrUnsupportedLanguage is returned when no grammar exists for a language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Manager owns one lazily created parser pool per grammar.
//
// Safe for concurrent use. Callers own the returned trees and must Close
// them; the Manager itself must be closed to free its parsers.
//
// Example:
//
//	manager := parser.NewManager(logger, 0)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("<Button />"), parser.LanguageTSX)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	mu       sync.Mutex
	pools    map[Language]*parserPool
	poolSize int
	closed   bool
	parses   int

	logger *slog.Logger
}

// NewManager creates a Manager. poolSize <= 0 picks a size from the CPU count.
func NewManager(logger *slog.Logger, poolSize int) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:    make(map[Language]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the grammar for lang. Trees with syntax errors are
// still returned; inspect RootNode().HasError().
func (m *Manager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	pool, err := m.pool(lang)
	if err != nil {
		return nil, err
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, err
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parse %s: parser returned no tree", lang)
	}
	return tree, nil
}

func (m *Manager) pool(lang Language) (*parserPool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New("parser manager is closed")
	}
	m.parses++
	if pool, ok := m.pools[lang]; ok {
		return pool, nil
	}

	grammar, err := grammarFor(lang)
	if err != nil {
		return nil, err
	}
	pool := newParserPool(lang, grammar, m.poolSize, m.logger)
	m.pools[lang] = pool
	m.logger.Debug("created parser pool", "language", lang.String(), "max_size", m.poolSize)
	return pool, nil
}

func grammarFor(lang Language) (*ts.Language, error) {
	switch lang {
	case LanguageTSX:
		return ts.NewLanguage(ts_typescript.LanguageTSX()), nil
	case LanguageJavaScript:
		return ts.NewLanguage(ts_javascript.Language()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// Stats reports parser usage.
type Stats struct {
	ParsersCreated int
	ParsesCalled   int
}

// Stats returns usage counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := 0
	for _, pool := range m.pools {
		created += pool.createdCount()
	}
	return Stats{ParsersCreated: created, ParsesCalled: m.parses}
}

// Close frees every idle parser. Parsers still checked out are closed when
// released. Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	closed := 0
	for _, pool := range m.pools {
		closed += pool.close()
	}
	m.logger.Debug("closed parser manager", "parsers_closed", closed, "parses_called", m.parses)
	return nil
}
