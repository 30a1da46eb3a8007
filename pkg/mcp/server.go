package mcp

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uidoc/pkg/catalog"
	"github.com/gnana997/uidoc/pkg/mcplog"
	"github.com/gnana997/uidoc/pkg/render"
)

const (
	serverName = "uidoc"

	// ReferenceURI is the resource holding the full rendered document.
	ReferenceURI = "uidoc://reference"

	// DefaultCacheSize bounds the rendered component block cache.
	DefaultCacheSize = 256
)

// Version is reported to MCP clients. The CLI overrides it at build time.
var Version = "0.1.0-dev"

// Snapshot is one immutable generation of the reference. Tool calls read a
// whole snapshot, so a concurrent Update never exposes a half-built document.
type Snapshot struct {
	Catalog    *catalog.Catalog
	Renderer   *render.Renderer
	Document   string
	Generation uint64
}

// Options configures a Server.
type Options struct {
	// CacheSize bounds the component block cache. Zero means DefaultCacheSize.
	CacheSize int

	// CallLog records every tool call and resource read. Nil disables it.
	CallLog *mcplog.Logger

	Logger *slog.Logger
}

// Server exposes the rendered reference over MCP.
type Server struct {
	mcpServer  *server.MCPServer
	snapshot   atomic.Pointer[Snapshot]
	generation atomic.Uint64
	blocks     *lru.Cache[blockKey, string]
	callLog    *mcplog.Logger
	logger     *slog.Logger
}

// blockKey includes the generation so a block rendered from an old snapshot
// can never be served after an Update.
type blockKey struct {
	generation uint64
	name       string
}

// NewServer creates a server with no snapshot. Call Update before serving.
func NewServer(opts Options) (*Server, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{callLog: opts.CallLog, logger: opts.Logger}
	cache, err := lru.NewWithEvict(opts.CacheSize, func(key blockKey, _ string) {
		s.logger.Debug("component block evicted", "component", key.name, "generation", key.generation)
	})
	if err != nil {
		return nil, fmt.Errorf("create block cache: %w", err)
	}
	s.blocks = cache

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, Version, serverOpts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: getReferenceTool(), Handler: s.handleGetReference},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentReferenceTool(), Handler: s.handleGetComponentReference},
	)
	s.mcpServer.AddResource(referenceResource(), s.handleReadReference)

	return s, nil
}

// Update swaps in a new catalog and document and purges the block cache.
// It returns the new generation number.
func (s *Server) Update(cat *catalog.Catalog, r *render.Renderer, document string) uint64 {
	gen := s.generation.Add(1)
	s.snapshot.Store(&Snapshot{Catalog: cat, Renderer: r, Document: document, Generation: gen})
	s.blocks.Purge()
	s.logger.Info("reference updated", "generation", gen, "components", cat.Len(), "bytes", len(document))
	return gen
}

// Snapshot returns the current snapshot, or nil before the first Update.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// MCPServer exposes the underlying server for transports other than stdio.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// CacheLen reports the number of cached component blocks.
func (s *Server) CacheLen() int {
	return s.blocks.Len()
}

// componentBlock returns the rendered block for name from snap, rendering
// and caching it on a miss.
func (s *Server) componentBlock(snap *Snapshot, name string) (string, bool) {
	key := blockKey{generation: snap.Generation, name: name}
	if block, ok := s.blocks.Get(key); ok {
		return block, true
	}
	comp, ok := snap.Catalog.Component(name)
	if !ok {
		return "", false
	}
	block := snap.Renderer.RenderComponent(comp)
	s.blocks.Add(key, block)
	return block, true
}
