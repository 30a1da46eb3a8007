package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uidoc/catalogs"
	"github.com/gnana997/uidoc/pkg/mcplog"
	"github.com/gnana997/uidoc/pkg/render"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	// Build the binary once for all integration tests.
	tmp, err := os.MkdirTemp("", "uidoc-integration-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "uidoc")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmp)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches uidoc serve on the example catalog and returns an
// initialized MCP client.
func startServer(t *testing.T, extraArgs ...string) *client.Client {
	t.Helper()

	catalogPath := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, catalogs.ShadcnJSON, 0o644))

	args := append([]string{"serve", "--catalog", catalogPath}, extraArgs...)
	c, err := client.NewStdioMCPClient(binaryPath, nil, args...)
	require.NoError(t, err, "failed to start MCP server")

	t.Cleanup(func() {
		c.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "uidoc-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "uidoc", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	toolNames := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		toolNames[i] = tool.Name
	}
	for _, name := range []string{"get_reference", "list_components", "get_component_reference"} {
		assert.Contains(t, toolNames, name, "missing tool: %s", name)
	}
}

func TestIntegration_GetReference(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "get_reference", nil)
	assert.False(t, result.IsError)

	doc := extractText(t, result)
	assert.True(t, strings.HasPrefix(doc, render.DefaultPreamble()))
	assert.Contains(t, doc, "## Tooltip\n")
}

func TestIntegration_ListComponents(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	t.Run("catalog order", func(t *testing.T) {
		result := callToolHelper(t, c, "list_components", nil)
		assert.False(t, result.IsError)

		var comps []map[string]any
		require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &comps))
		require.Len(t, comps, 7)
		assert.Equal(t, "Badge", comps[0]["name"])
		assert.Equal(t, "Tooltip", comps[6]["name"])
	})

	t.Run("filter by keyword", func(t *testing.T) {
		result := callToolHelper(t, c, "list_components", map[string]any{"keyword": "form input"})
		assert.False(t, result.IsError)

		var comps []map[string]any
		require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &comps))
		require.Len(t, comps, 1)
		assert.Equal(t, "Input", comps[0]["name"])
	})
}

func TestIntegration_GetComponentReference(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	t.Run("existing component", func(t *testing.T) {
		result := callToolHelper(t, c, "get_component_reference", map[string]any{"name": "Button"})
		assert.False(t, result.IsError)

		block := extractText(t, result)
		assert.True(t, strings.HasPrefix(block, "## Button\n"))
		assert.Contains(t, block, "| Name | Type | Default | Options | Description |")
		assert.Contains(t, block, "`'default' \\| 'sm' \\| 'lg' \\| 'icon'`")
	})

	t.Run("not found returns error", func(t *testing.T) {
		result := callToolHelper(t, c, "get_component_reference", map[string]any{"name": "Carousel"})
		assert.True(t, result.IsError)
	})

	t.Run("missing name returns error", func(t *testing.T) {
		result := callToolHelper(t, c, "get_component_reference", nil)
		assert.True(t, result.IsError)
	})
}

func TestIntegration_ReadReferenceResource(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "uidoc://reference"
	res, err := c.ReadResource(ctx, req)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	text, ok := res.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected TextResourceContents, got %T", res.Contents[0])
	assert.Equal(t, "text/markdown", text.MIMEType)
	assert.Contains(t, text.Text, "## Badge\n")
}

func TestIntegration_CallLog(t *testing.T) {
	skipIfNotIntegration(t)
	logPath := filepath.Join(t.TempDir(), "logs", "calls.jsonl")
	c := startServer(t, "--log-file", logPath)

	callToolHelper(t, c, "list_components", nil)
	callToolHelper(t, c, "get_component_reference", map[string]any{"name": "Dialog"})

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && strings.Count(string(data), "\n") >= 2
	}, 5*time.Second, 50*time.Millisecond)

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()

	var entries []mcplog.LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e mcplog.LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "list_components", entries[0].Name)
	assert.Equal(t, "Dialog", entries[1].Params["name"])
	assert.Equal(t, uint64(1), entries[1].Generation)
}
