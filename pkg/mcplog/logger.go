// Package mcplog records MCP tool calls and resource reads as JSONL.
package mcplog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Kind distinguishes tool calls from resource reads.
type Kind string

const (
	KindTool     Kind = "tool"
	KindResource Kind = "resource"
)

// LogEntry is one JSONL line.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Kind          Kind           `json:"kind"`
	Name          string         `json:"name"`
	Params        map[string]any `json:"params,omitempty"`
	Generation    uint64         `json:"generation"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	IsError       bool           `json:"is_error"`
	Error         *string        `json:"error"`
}

// Logger appends entries to a writer. It is safe for concurrent use, and a
// nil *Logger discards everything.
type Logger struct {
	mu  sync.Mutex
	w   io.WriteCloser
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories.
// An empty path returns nil, nil.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return New(f), nil
}

// New wraps an already open writer.
func New(w io.WriteCloser) *Logger {
	return &Logger{w: w, enc: json.NewEncoder(w)}
}

// Write appends one entry. Callers ignore the error so logging never
// changes a response.
func (l *Logger) Write(entry LogEntry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying writer.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}

// Entry starts an entry at start with timing and size fields filled in.
func Entry(kind Kind, name string, start time.Time, responseBytes int, err error) LogEntry {
	e := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Kind:          kind,
		Name:          name,
		DurationMs:    time.Since(start).Milliseconds(),
		ResponseBytes: responseBytes,
		TokensEst:     EstimateTokens(responseBytes),
	}
	if err != nil {
		msg := err.Error()
		e.Error = &msg
		e.IsError = true
	}
	return e
}

// SanitizeParams copies args for logging. Strings longer than 64 bytes are
// replaced by a "{key}_len" entry.
func SanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// ResponseBytes returns the serialized size of a tool result's content.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// ResourceBytes returns the total text size of resource contents.
func ResourceBytes(contents []mcp.ResourceContents) int {
	n := 0
	for _, c := range contents {
		switch rc := c.(type) {
		case mcp.TextResourceContents:
			n += len(rc.Text)
		case *mcp.TextResourceContents:
			n += len(rc.Text)
		case mcp.BlobResourceContents:
			n += len(rc.Blob)
		case *mcp.BlobResourceContents:
			n += len(rc.Blob)
		}
	}
	return n
}

// EstimateTokens approximates the token count of n bytes of Markdown.
func EstimateTokens(n int) int {
	return n / 4
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
