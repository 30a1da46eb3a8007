package parser

import (
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out tree-sitter parsers for one grammar.
//
// Parsers are created lazily up to maxSize; once that many exist, acquire
// blocks until one is released.
type parserPool struct {
	pool    chan *ts.Parser
	lang    Language
	grammar *ts.Language
	maxSize int

	mu      sync.Mutex
	created int
	closed  bool

	logger *slog.Logger
}

func newParserPool(lang Language, grammar *ts.Language, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		lang:    lang,
		grammar: grammar,
		maxSize: maxSize,
		logger:  logger,
	}
}

// acquire returns an idle parser, creating one if the pool has room.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser, ok := <-p.pool:
		if !ok {
			return nil, fmt.Errorf("%s parser pool is closed", p.lang)
		}
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.maxSize {
		parser := ts.NewParser()
		if err := parser.SetLanguage(p.grammar); err != nil {
			p.mu.Unlock()
			parser.Close()
			return nil, fmt.Errorf("set %s grammar: %w", p.lang, err)
		}
		p.created++
		p.logger.Debug("created parser", "language", p.lang.String(), "pool_size", p.created)
		p.mu.Unlock()
		return parser, nil
	}
	p.mu.Unlock()

	parser, ok := <-p.pool
	if !ok {
		return nil, fmt.Errorf("%s parser pool is closed", p.lang)
	}
	return parser, nil
}

// release puts a parser back. Parsers beyond capacity are closed.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		parser.Close()
		return
	}
	select {
	case p.pool <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "language", p.lang.String())
	}
}

// close drains the pool and frees every idle parser.
func (p *parserPool) close() int {
	p.mu.Lock()
	p.closed = true
	close(p.pool)
	p.mu.Unlock()

	count := 0
	for parser := range p.pool {
		parser.Close()
		count++
	}
	return count
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
