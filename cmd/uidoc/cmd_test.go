package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uidoc/catalogs"
	"github.com/gnana997/uidoc/pkg/catalog"
	"github.com/gnana997/uidoc/pkg/docgen"
	"github.com/gnana997/uidoc/pkg/render"
)

// --- helpers ---

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newApp(strings.NewReader(""), &out, &errOut).root()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

// inProject switches to a fresh directory holding the example catalog.
func inProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("catalog.json", catalogs.ShadcnJSON, 0o644))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const brokenCatalog = `{"components": [
  {"name": "Badge", "description": "d", "import": "i", "props": [{"name": "color"}], "example": "e"},
  {"name": "Card", "import": "i", "props": [], "example": "e"}
]}`

// --- version ---

func TestVersion(t *testing.T) {
	inProject(t)
	res := runCLI(t, "version")
	require.NoError(t, res.err)
	assert.Equal(t, "uidoc "+version+"\n", res.stdout)
}

// --- generate ---

func TestGenerate_WritesOutput(t *testing.T) {
	inProject(t)
	res := runCLI(t, "generate", "--output", "docs/components.mdx")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "wrote docs/components.mdx (7 components")

	doc := readFile(t, filepath.Join("docs", "components.mdx"))
	assert.True(t, strings.HasPrefix(doc, render.DefaultPreamble()))
	assert.Equal(t, 7, strings.Count(doc, "</details>\n\n"+render.BlockSeparator+"\n\n"))
}

func TestGenerate_Stdout(t *testing.T) {
	inProject(t)
	res := runCLI(t, "generate", "--output", "-", "--language", "tsx")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "## Button\n")
	assert.Contains(t, res.stdout, "```tsx\n")
	_, err := os.Stat("components.mdx")
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_Sorted(t *testing.T) {
	inProject(t)
	res := runCLI(t, "generate", "--output", "-", "--sort")
	require.NoError(t, res.err)
	assert.Less(t, strings.Index(res.stdout, "## Badge"), strings.Index(res.stdout, "## Button"))
	assert.Less(t, strings.Index(res.stdout, "## Separator"), strings.Index(res.stdout, "## Tooltip"))
}

func TestGenerate_LoadErrorNamesRecords(t *testing.T) {
	inProject(t)
	require.NoError(t, os.WriteFile("broken.json", []byte(brokenCatalog), 0o644))

	res := runCLI(t, "generate", "--catalog", "broken.json")
	require.Error(t, res.err)
	assert.Equal(t, exitLoad, exitCode(res.err))

	msg := describeError(res.err)
	assert.Contains(t, msg, "load catalog broken.json:")
	assert.Contains(t, msg, `components[0] (Badge): props[0]: missing required field "type"`)
	assert.Contains(t, msg, `components[1] (Card): missing required field "description"`)

	_, err := os.Stat("components.mdx")
	assert.True(t, os.IsNotExist(err), "nothing written")
}

func TestGenerate_MissingCatalog(t *testing.T) {
	inProject(t)
	res := runCLI(t, "generate", "--catalog", "nope.json")
	require.Error(t, res.err)
	assert.Equal(t, exitLoad, exitCode(res.err))
	assert.Contains(t, describeError(res.err), "nope.json")
}

func TestGenerate_WriteErrorNamesPath(t *testing.T) {
	inProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join("out", "taken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("out", "taken", "x"), nil, 0o644))

	res := runCLI(t, "generate", "--output", filepath.Join("out", "taken"))
	require.Error(t, res.err)
	assert.Equal(t, exitWrite, exitCode(res.err))
	assert.Contains(t, res.err.Error(), filepath.Join("out", "taken"))
}

// --- configuration precedence ---

func TestConfig_Precedence(t *testing.T) {
	inProject(t)
	require.NoError(t, os.WriteFile(defaultConfigFile, []byte("output: from-file.mdx\nlanguage: jsx\n"), 0o644))

	res := runCLI(t, "generate")
	require.NoError(t, res.err)
	assert.Contains(t, readFile(t, "from-file.mdx"), "```jsx\n")

	t.Setenv("UIDOC_OUTPUT", "from-env.mdx")
	require.NoError(t, runCLI(t, "generate").err)
	assert.FileExists(t, "from-env.mdx")

	require.NoError(t, runCLI(t, "generate", "--output", "from-flag.mdx").err)
	assert.FileExists(t, "from-flag.mdx")
}

func TestConfig_NestedEnvKey(t *testing.T) {
	inProject(t)
	t.Setenv("UIDOC_SERVE_CACHE_SIZE", "9")
	t.Setenv("UIDOC_LOG_LEVEL", "debug")

	res := runCLI(t, "init")
	require.NoError(t, res.err)

	var cfg ProjectConfig
	require.NoError(t, yaml.Unmarshal([]byte(readFile(t, defaultConfigFile)), &cfg))
	assert.Equal(t, 9, cfg.Serve.CacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_ExplicitFileMissing(t *testing.T) {
	inProject(t)
	res := runCLI(t, "generate", "--config", "missing.yaml")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "read config")
}

func TestConfig_ExplicitFileFromEnv(t *testing.T) {
	inProject(t)
	require.NoError(t, os.WriteFile("team.yaml", []byte("output: team.mdx\n"), 0o644))
	t.Setenv("UIDOC_CONFIG_FILE", "team.yaml")

	require.NoError(t, runCLI(t, "generate").err)
	assert.FileExists(t, "team.mdx")
}

func TestConfig_BadLogLevel(t *testing.T) {
	inProject(t)
	res := runCLI(t, "version", "--log-level", "chatty")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown log level")
}

// --- init ---

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	res := runCLI(t, "init", "--example", "--output", "docs/ui.mdx")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "wrote "+defaultConfigFile)
	assert.Contains(t, res.stdout, "wrote catalog.json")

	var cfg ProjectConfig
	require.NoError(t, yaml.Unmarshal([]byte(readFile(t, defaultConfigFile)), &cfg))
	assert.Equal(t, "catalog.json", cfg.Catalog)
	assert.Equal(t, "docs/ui.mdx", cfg.Output)
	assert.Equal(t, "typescript", cfg.Language)
	assert.True(t, cfg.EscapeAllCells)
	assert.Equal(t, 200, cfg.Watch.DebounceMs)
	assert.Equal(t, string(catalogs.ShadcnJSON), readFile(t, "catalog.json"))

	res = runCLI(t, "init")
	require.Error(t, res.err, "refuses to overwrite")
	assert.Contains(t, res.err.Error(), "--force")

	require.NoError(t, runCLI(t, "init", "--force").err)

	require.NoError(t, runCLI(t, "generate").err, "the starter project generates")
	assert.FileExists(t, filepath.Join("docs", "ui.mdx"))
}

func TestInit_ExplicitConfigPath(t *testing.T) {
	t.Chdir(t.TempDir())
	res := runCLI(t, "init", "--config", filepath.Join("config", "uidoc.yaml"))
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join("config", "uidoc.yaml"))
}

// --- lint ---

func TestLint_OK(t *testing.T) {
	inProject(t)
	res := runCLI(t, "lint")
	require.NoError(t, res.err)
	assert.Equal(t, "ok: 7 components, 16 props\n", res.stdout)
	_, err := os.Stat("components.mdx")
	assert.True(t, os.IsNotExist(err), "lint never writes")
}

func TestLint_SnippetIssues(t *testing.T) {
	inProject(t)
	require.NoError(t, os.WriteFile("snippets.json", []byte(`{"components": [
  {"name": "Badge", "description": "d", "import": "import { Badge } from", "props": [], "example": "<Badge />"}
]}`), 0o644))

	res := runCLI(t, "lint", "--catalog", "snippets.json")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errSnippetIssues))
	assert.Equal(t, exitVerify, exitCode(res.err))
	assert.Contains(t, res.stdout, "snippets.json: Badge import:1:")
}

func TestLint_StructureProblem(t *testing.T) {
	inProject(t)
	require.NoError(t, os.WriteFile("pipes.json", []byte(`{"components": [
  {"name": "Badge", "description": "d", "import": "import { Badge } from \"x\"", "props": [
    {"name": "color", "type": "string", "description": "left | right"}], "example": "<Badge />"}
]}`), 0o644))

	require.NoError(t, runCLI(t, "lint", "--catalog", "pipes.json").err, "escaped by default")

	res := runCLI(t, "lint", "--catalog", "pipes.json", "--escape-all-cells=false")
	var ve *render.VerifyError
	require.ErrorAs(t, res.err, &ve)
	assert.Equal(t, exitVerify, exitCode(res.err))
}

// --- inspect ---

func TestInspect_Human(t *testing.T) {
	inProject(t)
	res := runCLI(t, "inspect", "button", "--example")
	require.NoError(t, res.err)

	assert.True(t, strings.HasPrefix(res.stdout, "Button  (4 props)\n"))
	assert.Contains(t, res.stdout, `import { Button } from "@/components/ui/button"`)
	assert.Contains(t, res.stdout, "options: default | sm | lg | icon")
	assert.Contains(t, res.stdout, "disabled")
	assert.Contains(t, res.stdout, "—", "missing default placeholder")
	assert.Contains(t, res.stdout, "Save changes")
}

func TestInspect_Markdown(t *testing.T) {
	inProject(t)
	res := runCLI(t, "inspect", "Separator", "--markdown")
	require.NoError(t, res.err)

	cat, err := catalogs.Shadcn()
	require.NoError(t, err)
	sep, _ := cat.Component("Separator")
	assert.Equal(t, render.New(render.DefaultOptions()).RenderComponent(sep), res.stdout)
}

func TestInspect_Unknown(t *testing.T) {
	inProject(t)
	res := runCLI(t, "inspect", "Carousel")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `component "Carousel" not found`)
	assert.Equal(t, exitFailure, exitCode(res.err))
}

func TestPrintPropsSection_None(t *testing.T) {
	var buf bytes.Buffer
	printPropsSection(&buf, "Props", nil)
	assert.Equal(t, "Props  (none)\n", buf.String())
}

func TestWrapOptions(t *testing.T) {
	short := "a | b"
	assert.Equal(t, short, wrapOptions(short, 10))

	long := strings.Repeat("option | ", 15) + "last"
	wrapped := wrapOptions(long, 20)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), maxWidth)
	}
}

// --- watch ---

func TestWatch_RegeneratesOnChange(t *testing.T) {
	inProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan cliResult, 1)
	go func() { done <- runCLIContext(t, ctx, "watch", "--debounce-ms", "30", "--output", "live.mdx") }()

	require.Eventually(t, func() bool {
		_, err := os.Stat("live.mdx")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "initial generation")

	cat, err := catalog.LoadFile("catalog.json", catalog.LoadOptions{})
	require.NoError(t, err)
	added := append(cat.Components, catalog.Component{
		Name: "Skeleton", Description: "Loading placeholder.", Import: `import { Skeleton } from "@/components/ui/skeleton"`, Example: "<Skeleton />",
	})

	// The watches are added after the initial generation, so keep touching
	// the catalog until a change is picked up.
	require.Eventually(t, func() bool {
		data, err := os.ReadFile("live.mdx")
		if err == nil && strings.Contains(string(data), "## Skeleton\n") {
			return true
		}
		_ = docgen.WriteFile("catalog.json", catalogJSON(added))
		return false
	}, 5*time.Second, 200*time.Millisecond, "regenerated after change")

	cancel()
	select {
	case res := <-done:
		assert.NoError(t, res.err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

// catalogJSON encodes components without props as a catalog document.
func catalogJSON(components []catalog.Component) string {
	var b strings.Builder
	b.WriteString(`{"components": [`)
	for i, c := range components {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"name": %q, "description": %q, "import": %q, "props": [], "example": %q}`,
			c.Name, c.Description, c.Import, c.Example)
	}
	b.WriteString("]}")
	return b.String()
}

// --- exit codes ---

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"load", fmt.Errorf("wrap: %w", &catalog.LoadError{Source: "c.json", Err: errors.New("x")}), exitLoad},
		{"write", &docgen.WriteError{Path: "out.md", Err: errors.New("disk full")}, exitWrite},
		{"verify", &render.VerifyError{Problems: []string{"p"}}, exitVerify},
		{"snippets", fmt.Errorf("1 issue: %w", errSnippetIssues), exitVerify},
		{"other", errors.New("boom"), exitFailure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}

func TestDescribeError_PlainError(t *testing.T) {
	err := &catalog.LoadError{Source: "c.json", Err: errors.New("unexpected EOF")}
	assert.Equal(t, err.Error(), describeError(err))
}
