package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uidoc/pkg/docgen"
)

// serverKey names the uidoc entry in agent MCP configs.
const serverKey = "uidoc"

// AgentDef defines how to detect and configure one AI agent.
type AgentDef struct {
	ID          string
	DisplayName string
	Method      string            // "cli" or "file"
	Binary      string            // for CLI agents: binary name on PATH
	DirMarkers  []string          // for file-based: dirs that indicate presence
	ConfigPath  func() string     // returns resolved config file path
	ServersKey  string            // "servers" (VS Code) or "mcpServers" (others)
	NeedsScope  bool              // whether `mcp add` takes --scope
	ExtraFields map[string]string // extra JSON fields (e.g. "type": "stdio" for VS Code)
}

// DetectedAgent is an agent found on the system.
type DetectedAgent struct {
	Def            AgentDef
	AlreadySetup   bool
	ResolvedConfig string
}

// setupOptions holds parsed flags for the setup command.
type setupOptions struct {
	scope  string
	agents []string
	dryRun bool

	// serveArgs follow the binary name in the registered command.
	serveArgs []string
}

// Replaceable for testing.
var lookPathFunc = exec.LookPath
var statFunc = os.Stat
var runCommandFunc = func(w io.Writer, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd.Run()
}

// agentRegistry lists all supported agents in display order.
var agentRegistry = []AgentDef{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Method: "cli", Binary: "claude", NeedsScope: true,
	},
	{
		ID: "openai_codex", DisplayName: "OpenAI Codex",
		Method: "cli", Binary: "codex", NeedsScope: true,
	},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		Method: "file", DirMarkers: []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		Method: "file", DirMarkers: []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		Method:     "file",
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

func (a *app) setupCmd() *cobra.Command {
	opts := setupOptions{scope: "project"}
	var reload bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register `uidoc serve` with the AI agents found on this machine",
		Long: `Detect supported AI agents (Claude Code, Codex, VS Code Copilot, Cursor,
Claude Desktop) and add an MCP server entry that runs uidoc serve against
the configured catalog. Existing entries are left alone. Use --dry-run to
see the changes first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath, err := filepath.Abs(a.docgenConfig().CatalogPath)
			if err != nil {
				return err
			}
			if opts.scope != "project" && opts.scope != "user" {
				return fmt.Errorf("unknown scope %q (want project or user)", opts.scope)
			}
			opts.serveArgs = []string{"serve", "--catalog", catalogPath}
			if reload {
				opts.serveArgs = append(opts.serveArgs, "--watch")
			}
			executeSetup(cmd.OutOrStdout(), opts)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.scope, "scope", opts.scope, "scope for CLI agents (project or user)")
	cmd.Flags().StringSliceVar(&opts.agents, "agent", nil, "only configure these agent IDs (claude_code, openai_codex, vscode_copilot, cursor, claude_desktop)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the changes without making them")
	cmd.Flags().BoolVar(&reload, "watch", false, "register the server with --watch")
	return cmd
}

// claudeDesktopConfigPath returns the OS-specific Claude Desktop config path.
func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default: // linux
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detectAgents scans the system for installed/accessible AI agents.
func detectAgents() []DetectedAgent {
	var detected []DetectedAgent

	for _, def := range agentRegistry {
		switch def.Method {
		case "cli":
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, DetectedAgent{
					Def:          def,
					AlreadySetup: isAlreadyConfigured(".mcp.json", "mcpServers"),
				})
			}

		case "file":
			configPath, found := "", false
			for _, marker := range def.DirMarkers {
				if _, err := statFunc(marker); err == nil {
					found = true
					configPath = def.ConfigPath()
					break
				}
			}
			// Agents without markers count as present when their config dir exists.
			if !found && len(def.DirMarkers) == 0 && def.ConfigPath != nil {
				configPath = def.ConfigPath()
				if _, err := statFunc(filepath.Dir(configPath)); err == nil {
					found = true
				}
			}
			if found {
				detected = append(detected, DetectedAgent{
					Def:            def,
					ResolvedConfig: configPath,
					AlreadySetup:   isAlreadyConfigured(configPath, def.ServersKey),
				})
			}
		}
	}

	return detected
}

// isAlreadyConfigured checks for a uidoc entry under serversKey.
func isAlreadyConfigured(configPath, serversKey string) bool {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[serverKey]
	return exists
}

// serverEntry returns the MCP server config object for uidoc.
func serverEntry(serveArgs []string, extra map[string]string) map[string]any {
	args := make([]any, 0, len(serveArgs))
	for _, a := range serveArgs {
		args = append(args, a)
	}
	if len(args) == 0 {
		args = append(args, "serve")
	}
	entry := map[string]any{
		"command": "uidoc",
		"args":    args,
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds a uidoc entry under serversKey to existing JSON and
// returns the merged document. It returns nil, nil when the entry exists.
func mergeServerEntry(existing []byte, serversKey string, serveArgs []string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverKey]; exists {
		return nil, nil
	}

	servers[serverKey] = serverEntry(serveArgs, extra)
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureCLIAgent runs `<binary> mcp add` with the chosen scope.
func configureCLIAgent(w io.Writer, def AgentDef, scope string, serveArgs []string) error {
	return runCommandFunc(w, def.Binary, cliArgs(scope, serveArgs)...)
}

func cliArgs(scope string, serveArgs []string) []string {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverKey, "--", "uidoc")
	return append(args, serveArgs...)
}

// configureFileAgent merges the entry into the JSON config file and
// replaces it atomically.
func configureFileAgent(def AgentDef, configPath string, serveArgs []string) error {
	var existing []byte
	if data, err := os.ReadFile(configPath); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, def.ServersKey, serveArgs, def.ExtraFields)
	if err != nil {
		return err
	}
	if merged == nil {
		return nil
	}
	return docgen.WriteFile(configPath, string(merged))
}

// --- Orchestration ---

// executeSetup configures every detected agent that opts selects.
func executeSetup(w io.Writer, opts setupOptions) {
	detected := detectAgents()
	if len(opts.agents) > 0 {
		detected = selectAgents(detected, opts.agents)
	}
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	fmt.Fprintln(w)

	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "%s already configured, skipping\n", d.Def.DisplayName)
			continue
		}
		configureOneAgent(w, d, opts)
	}
}

// selectAgents keeps the detected agents whose ID is listed.
func selectAgents(detected []DetectedAgent, ids []string) []DetectedAgent {
	var out []DetectedAgent
	for _, d := range detected {
		for _, id := range ids {
			if d.Def.ID == id {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func configureOneAgent(w io.Writer, d DetectedAgent, opts setupOptions) {
	switch d.Def.Method {
	case "cli":
		scope := opts.scope
		if !d.Def.NeedsScope {
			scope = ""
		}
		if opts.dryRun {
			fmt.Fprintf(w, "  would run: %s %s\n", d.Def.Binary, strings.Join(cliArgs(scope, opts.serveArgs), " "))
			return
		}
		if err := configureCLIAgent(w, d.Def, scope, opts.serveArgs); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.Def.DisplayName, scope)

	case "file":
		if opts.dryRun {
			fmt.Fprintf(w, "  would update: %s\n", d.ResolvedConfig)
			return
		}
		if err := configureFileAgent(d.Def, d.ResolvedConfig, opts.serveArgs); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.Def.DisplayName, d.ResolvedConfig)
	}
}
