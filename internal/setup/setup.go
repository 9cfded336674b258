// Package setup registers and unregisters the postboard MCP server with
// supported coding agents (Claude Code, Cursor, Codex, OpenCode).
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ServerName is the key the MCP server is registered under.
const ServerName = "postboard"

// Result describes what an Install or Uninstall call changed.
type Result struct {
	Changed bool
	Path    string
	Message string
}

// Options selects the agent configuration to edit.
type Options struct {
	// ConfigDir overrides the agent's config directory (e.g. ~/.cursor).
	ConfigDir string
	// Project installs into the current project instead of the user config.
	Project bool
	// PostsHome, when set, is passed to the server as --posts-home so the
	// agent always talks to the same board.
	PostsHome string
}

type format int

const (
	formatMCPServers format = iota // {"mcpServers": {name: {...}}}
	formatOpencode                 // {"mcp": {name: {...}}}
	formatTOML                     // [mcp_servers.name]
)

type agent struct {
	dotDir     string
	projectDir string // replaces dotDir for project installs when non-empty
	format     format
	path       func(dir string, project bool) string
}

var agents = map[string]agent{
	"claude-code": {
		dotDir: ".claude",
		format: formatMCPServers,
		path: func(dir string, project bool) string {
			if project {
				return filepath.Join(filepath.Dir(dir), ".mcp.json")
			}
			return filepath.Join(filepath.Dir(dir), ".claude.json")
		},
	},
	"cursor": {
		dotDir: ".cursor",
		format: formatMCPServers,
		path:   func(dir string, _ bool) string { return filepath.Join(dir, "mcp.json") },
	},
	"codex": {
		dotDir: ".codex",
		format: formatTOML,
		path:   func(dir string, _ bool) string { return filepath.Join(dir, "config.toml") },
	},
	"opencode": {
		dotDir:     filepath.Join(".config", "opencode"),
		projectDir: ".",
		format:     formatOpencode,
		path:       func(dir string, _ bool) string { return filepath.Join(dir, "opencode.json") },
	},
}

// Agents returns the supported agent names in sorted order.
func Agents() []string {
	names := make([]string, 0, len(agents))
	for name := range agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigPath returns the file Install and Uninstall edit for name.
func ConfigPath(name string, opts Options) (string, error) {
	a, ok := agents[name]
	if !ok {
		return "", fmt.Errorf("unknown agent %q: want one of %s", name, strings.Join(Agents(), ", "))
	}
	dir := opts.ConfigDir
	if dir == "" {
		base, err := baseDir(opts.Project)
		if err != nil {
			return "", err
		}
		sub := a.dotDir
		if opts.Project && a.projectDir != "" {
			sub = a.projectDir
		}
		dir = filepath.Join(base, sub)
	}
	return a.path(dir, opts.Project), nil
}

func baseDir(project bool) (string, error) {
	if project {
		return os.Getwd()
	}
	return os.UserHomeDir()
}

// ---------------------------------------------------------------------------
// Install / Uninstall
// ---------------------------------------------------------------------------

// Install registers the MCP server with agent name. Installing twice is a
// no-op reported with Changed == false.
func Install(name string, opts Options) (Result, error) {
	path, err := ConfigPath(name, opts)
	if err != nil {
		return Result{}, err
	}

	var changed bool
	switch agents[name].format {
	case formatTOML:
		changed, err = appendTOMLSection(path, opts.PostsHome)
	case formatOpencode:
		changed, err = installJSON(path, "mcp", opencodeEntry(opts.PostsHome))
	default:
		changed, err = installJSON(path, "mcpServers", stdioEntry(opts.PostsHome))
	}
	if err != nil {
		return Result{}, fmt.Errorf("setup.Install %s: %w", name, err)
	}
	if !changed {
		return Result{Path: path, Message: "Already installed"}, nil
	}
	return Result{Changed: true, Path: path, Message: "Installed MCP server in " + path}, nil
}

// Uninstall removes the MCP server registration from agent name.
func Uninstall(name string, opts Options) (Result, error) {
	path, err := ConfigPath(name, opts)
	if err != nil {
		return Result{}, err
	}

	var changed bool
	switch agents[name].format {
	case formatTOML:
		changed, err = removeTOMLSection(path)
	case formatOpencode:
		changed, err = uninstallJSON(path, "mcp")
	default:
		changed, err = uninstallJSON(path, "mcpServers")
	}
	if err != nil {
		return Result{}, fmt.Errorf("setup.Uninstall %s: %w", name, err)
	}
	if !changed {
		return Result{Path: path, Message: "Not installed"}, nil
	}
	return Result{Changed: true, Path: path, Message: "Removed MCP server from " + path}, nil
}

// ---------------------------------------------------------------------------
// MCP config entries
// ---------------------------------------------------------------------------

func serverArgs(postsHome string) []any {
	args := []any{"mcp"}
	if postsHome != "" {
		args = append(args, "--posts-home", postsHome)
	}
	return args
}

func stdioEntry(postsHome string) map[string]any {
	return map[string]any{
		"command": "posts",
		"args":    serverArgs(postsHome),
		"type":    "stdio",
	}
}

func opencodeEntry(postsHome string) map[string]any {
	return map[string]any{
		"type":    "local",
		"command": append([]any{"posts"}, serverArgs(postsHome)...),
	}
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

// readJSON returns the object stored at path, or an empty map when the file
// is missing. A file that is not a JSON object is an error so it is never
// overwritten.
func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files (MCP server entries) do not contain secrets
}

func installJSON(path, section string, entry map[string]any) (bool, error) {
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data[section].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data[section] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return false, nil
	}
	servers[ServerName] = entry
	return true, writeJSON(path, data)
}

func uninstallJSON(path, section string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data[section].(map[string]any)
	if _, exists := servers[ServerName]; !exists {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, section)
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, data)
}

// ---------------------------------------------------------------------------
// TOML helpers (text-based; only handles the [mcp_servers.postboard] table)
// ---------------------------------------------------------------------------

const tomlHeader = "[mcp_servers." + ServerName + "]"

func tomlSection(postsHome string) string {
	args := `["mcp"]`
	if postsHome != "" {
		args = fmt.Sprintf(`["mcp", "--posts-home", %q]`, postsHome)
	}
	return "\n" + tomlHeader + "\ncommand = \"posts\"\nargs = " + args + "\n"
}

func hasTOMLSection(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), tomlHeader)
}

func appendTOMLSection(path, postsHome string) (bool, error) {
	if hasTOMLSection(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.WriteString(tomlSection(postsHome))
	return err == nil, err
}

func removeTOMLSection(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	content := string(data)
	if !strings.Contains(content, tomlHeader) {
		return false, nil
	}
	// Drop the header and its key-value pairs up to the next table or EOF.
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == tomlHeader {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(trimmed, "[") {
			inSection = false
		}
		if !inSection {
			result = append(result, line)
		}
	}
	cleaned := strings.TrimRight(strings.Join(result, "\n"), "\n") + "\n"
	return true, os.WriteFile(path, []byte(cleaned), 0o644) // #nosec G306 -- agent TOML config is not a sensitive credential file
}
