// Package configcmd implements the `posts config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/postboard/cmd/posts/shared"
	"github.com/go-ports/postboard/internal/config"
)

const configTemplate = `# Postboard configuration

# Where the post collection is kept.
storage:
  backend: sqlite               # sqlite | memory
  path: posts.db                # relative to the posts home
  key: blogs                    # storage key holding the collection
  on_corrupt: fail              # fail | reset (discard an unreadable collection)

# How creation times are shown.
display:
  date_layout: "1/2/2006, 3:04:05 PM"
  timezone: Local               # Local | UTC | IANA name such as Europe/Paris

# Default directory for posts export --download.
export:
  dir: .
`

// Command implements `posts config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetHome(),
		newClearHome(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	home, source := c.ctx.ResolveHome()
	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return err
	}
	data := map[string]any{
		"storage": map[string]any{
			"backend":    cfg.Storage.Backend,
			"path":       cfg.StoragePath(home),
			"key":        cfg.Storage.Key,
			"on_corrupt": cfg.Storage.OnCorrupt,
		},
		"display": map[string]any{
			"date_layout": cfg.Display.DateLayout,
			"timezone":    cfg.Display.Timezone,
		},
		"export": map[string]any{
			"dir": cfg.Export.Dir,
		},
		"posts_home":        home,
		"posts_home_source": source,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := ctx.ResolveHome()
			cfgPath := filepath.Join(home, "config.yaml")
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-home / clear-home
// ---------------------------------------------------------------------------

func newSetHome() *cobra.Command {
	return &cobra.Command{
		Use:   "set-home <path>",
		Short: "Remember a posts home for runs without POSTS_HOME or --posts-home",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := config.SetPersistedHome(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posts home set to %s\n", home)
			reportOverride(cmd)
			return nil
		},
	}
}

func newClearHome() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-home",
		Short: "Forget the remembered posts home",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := config.ClearPersistedHome()
			if err != nil {
				return err
			}
			home, source := config.ResolveHome()
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No posts home was set; using %s (%s)\n", home, source)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posts home reset; using %s (%s)\n", home, source)
			return nil
		},
	}
}

// reportOverride warns when POSTS_HOME will shadow the remembered home.
func reportOverride(cmd *cobra.Command) {
	if _, source := config.ResolveHome(); source == config.HomeFromEnv {
		fmt.Fprintln(cmd.ErrOrStderr(), "Note: POSTS_HOME is set and takes precedence.")
	}
}
