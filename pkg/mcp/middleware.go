package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uidoc/pkg/mcplog"
)

// loggingMiddleware records every tool call as one JSONL entry. Only
// installed when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			entry := mcplog.Entry(mcplog.KindTool, req.Params.Name, start, mcplog.ResponseBytes(result), err)
			entry.Params = mcplog.SanitizeParams(req.GetArguments())
			if result != nil && result.IsError {
				entry.IsError = true
			}
			if snap := s.Snapshot(); snap != nil {
				entry.Generation = snap.Generation
			}
			_ = s.callLog.Write(entry)

			return result, err
		}
	}
}
