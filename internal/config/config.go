// Package config handles configuration loading and posts home resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/postboard/internal/models"
	"github.com/go-ports/postboard/internal/persist"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Corrupt-blob policies.
const (
	OnCorruptFail  = "fail"
	OnCorruptReset = "reset"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StorageConfig selects where the post collection is kept.
type StorageConfig struct {
	Backend   string `yaml:"backend"`    // "sqlite" | "memory"
	Path      string `yaml:"path"`       // relative paths resolve against the home dir
	Key       string `yaml:"key"`        // storage key holding the collection
	OnCorrupt string `yaml:"on_corrupt"` // "fail" | "reset"
}

// DisplayConfig controls how creation times are shown.
type DisplayConfig struct {
	DateLayout string `yaml:"date_layout"` // Go time layout
	Timezone   string `yaml:"timezone"`    // "Local", "UTC" or an IANA name
}

// ExportConfig controls file downloads.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Config is the root per-home configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Export  ExportConfig  `yaml:"export"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			Path:      "posts.db",
			Key:       persist.DefaultKey,
			OnCorrupt: OnCorruptFail,
		},
		Display: DisplayConfig{
			DateLayout: models.DefaultDisplayLayout,
			Timezone:   "Local",
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		if v, ok := st["backend"].(string); ok && v != "" {
			cfg.Storage.Backend = v
		}
		if v, ok := st["path"].(string); ok && v != "" {
			cfg.Storage.Path = v
		}
		if v, ok := st["key"].(string); ok && v != "" {
			cfg.Storage.Key = v
		}
		if v, ok := st["on_corrupt"].(string); ok && v != "" {
			cfg.Storage.OnCorrupt = v
		}
	}

	if disp, ok := raw["display"].(map[string]any); ok {
		if v, ok := disp["date_layout"].(string); ok && v != "" {
			cfg.Display.DateLayout = v
		}
		if v, ok := disp["timezone"].(string); ok && v != "" {
			cfg.Display.Timezone = v
		}
	}

	if exp, ok := raw["export"].(map[string]any); ok {
		if v, ok := exp["dir"].(string); ok && v != "" {
			cfg.Export.Dir = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first unsupported setting.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q: want %q or %q", c.Storage.Backend, BackendSQLite, BackendMemory)
	}
	switch c.Storage.OnCorrupt {
	case OnCorruptFail, OnCorruptReset:
	default:
		return fmt.Errorf("storage.on_corrupt %q: want %q or %q", c.Storage.OnCorrupt, OnCorruptFail, OnCorruptReset)
	}
	if _, err := c.Display.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (d DisplayConfig) Location() (*time.Location, error) {
	switch d.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("display.timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// StoragePath returns Storage.Path resolved against home.
func (c *Config) StoragePath(home string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(home, c.Storage.Path)
}

// ---------------------------------------------------------------------------
// Posts home resolution
// ---------------------------------------------------------------------------

// Home sources reported by ResolveHome.
const (
	HomeFromFlag    = "flag"
	HomeFromEnv     = "env"
	HomeFromConfig  = "config"
	HomeFromDefault = "default"
)

const (
	homeEnv    = "POSTS_HOME"
	homeKey    = "posts_home"
	defaultDir = ".posts"
)

// ResolveHome picks the posts home and reports where it came from:
// $POSTS_HOME, then posts_home in the global config, then ~/.posts.
func ResolveHome() (path, source string) {
	if env := os.Getenv(homeEnv); env != "" {
		if p, err := expandHome(env); err == nil {
			return p, HomeFromEnv
		}
	}
	if p, ok, err := GetPersistedHome(); err == nil && ok {
		return p, HomeFromConfig
	}
	userHome, _ := os.UserHomeDir()
	return filepath.Join(userHome, defaultDir), HomeFromDefault
}

// GetHome returns the resolved posts home path.
func GetHome() string {
	path, _ := ResolveHome()
	return path
}

// GetPersistedHome returns posts_home from the global config. ok is false
// when the file or the key is absent.
func GetPersistedHome() (path string, ok bool, err error) {
	g, err := openGlobal()
	if err != nil {
		return "", false, fmt.Errorf("config.GetPersistedHome: %w", err)
	}
	val, _ := g.values[homeKey].(string)
	if val = strings.TrimSpace(val); val == "" {
		return "", false, nil
	}
	if path, err = expandHome(val); err != nil {
		return "", false, fmt.Errorf("config.GetPersistedHome: %w", err)
	}
	return path, true, nil
}

// SetPersistedHome stores the absolute form of path as posts_home and
// returns it. Other keys in the global config are kept.
func SetPersistedHome(path string) (string, error) {
	abs, err := expandHome(path)
	if err != nil {
		return "", fmt.Errorf("config.SetPersistedHome: %w", err)
	}
	g, err := openGlobal()
	if err != nil {
		return "", fmt.Errorf("config.SetPersistedHome: %w", err)
	}
	g.values[homeKey] = abs
	if err := g.save(); err != nil {
		return "", fmt.Errorf("config.SetPersistedHome: %w", err)
	}
	return abs, nil
}

// ClearPersistedHome drops posts_home from the global config and reports
// whether it was set. A config left with no keys is removed.
func ClearPersistedHome() (bool, error) {
	g, err := openGlobal()
	if err != nil {
		return false, fmt.Errorf("config.ClearPersistedHome: %w", err)
	}
	if _, ok := g.values[homeKey]; !ok {
		return false, nil
	}
	delete(g.values, homeKey)
	if err := g.save(); err != nil {
		return false, fmt.Errorf("config.ClearPersistedHome: %w", err)
	}
	return true, nil
}

// globalFile is the user-wide config at ~/.config/postboard/config.yaml.
// Keys other than posts_home belong to the user and round-trip untouched.
type globalFile struct {
	path   string
	values map[string]any
}

func openGlobal() (*globalFile, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	g := &globalFile{
		path:   filepath.Join(userHome, ".config", "postboard", "config.yaml"),
		values: make(map[string]any),
	}
	data, err := os.ReadFile(g.path)
	switch {
	case os.IsNotExist(err):
		return g, nil
	case err != nil:
		return nil, err
	}
	// A malformed file is reported rather than overwritten.
	if err := yaml.Unmarshal(data, &g.values); err != nil {
		return nil, fmt.Errorf("%s: %w", g.path, err)
	}
	if g.values == nil {
		g.values = make(map[string]any)
	}
	return g, nil
}

func (g *globalFile) save() error {
	if len(g.values) == 0 {
		if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(g.values)
	if err != nil {
		return err
	}
	return os.WriteFile(g.path, out, 0o600)
}

// expandHome expands environment variables and a leading ~ and returns an
// absolute path.
func expandHome(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(userHome, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
