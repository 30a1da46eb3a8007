package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uidoc/pkg/mcplog"
)

var errNoSnapshot = errors.New("reference not generated yet")

// componentSummary is one list_components entry.
type componentSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Props       int    `json:"props"`
}

func (s *Server) handleGetReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.Snapshot()
	if snap == nil {
		return mcp.NewToolResultError(errNoSnapshot.Error()), nil
	}
	return mcp.NewToolResultText(snap.Document), nil
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.Snapshot()
	if snap == nil {
		return mcp.NewToolResultError(errNoSnapshot.Error()), nil
	}

	keyword := ""
	if v, ok := req.GetArguments()["keyword"].(string); ok {
		keyword = strings.ToLower(strings.TrimSpace(v))
	}

	out := make([]componentSummary, 0, snap.Catalog.Len())
	for i := range snap.Catalog.Components {
		c := &snap.Catalog.Components[i]
		if keyword != "" &&
			!strings.Contains(strings.ToLower(c.Name), keyword) &&
			!strings.Contains(strings.ToLower(c.Description), keyword) {
			continue
		}
		out = append(out, componentSummary{Name: c.Name, Description: c.Description, Props: len(c.Props)})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal components: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetComponentReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := s.Snapshot()
	if snap == nil {
		return mcp.NewToolResultError(errNoSnapshot.Error()), nil
	}

	block, ok := s.componentBlock(snap, name)
	if !ok {
		msg := fmt.Sprintf("component %q not found", name)
		if alt := suggest(snap.Catalog.Names(), name); alt != "" {
			msg += fmt.Sprintf("; did you mean %q?", alt)
		}
		return mcp.NewToolResultError(msg), nil
	}
	return mcp.NewToolResultText(block), nil
}

func (s *Server) handleReadReference(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	start := mcplog.Now()
	snap := s.Snapshot()
	if snap == nil {
		_ = s.callLog.Write(mcplog.Entry(mcplog.KindResource, ReferenceURI, start, 0, errNoSnapshot))
		return nil, errNoSnapshot
	}

	contents := []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ReferenceURI,
			MIMEType: "text/markdown",
			Text:     snap.Document,
		},
	}
	entry := mcplog.Entry(mcplog.KindResource, ReferenceURI, start, mcplog.ResourceBytes(contents), nil)
	entry.Generation = snap.Generation
	_ = s.callLog.Write(entry)
	return contents, nil
}

// suggest returns the name that matches want case-insensitively, the only
// name with want as a prefix, or "".
func suggest(names []string, want string) string {
	lw := strings.ToLower(want)
	var prefixed []string
	for _, n := range names {
		ln := strings.ToLower(n)
		if ln == lw {
			return n
		}
		if lw != "" && strings.HasPrefix(ln, lw) {
			prefixed = append(prefixed, n)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0]
	}
	return ""
}
