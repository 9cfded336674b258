// Package setupcmd implements the `posts setup` command group.
package setupcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
	"github.com/go-ports/postboard/internal/setup"
)

// Command implements `posts setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the setup command group with one subcommand per agent.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "setup",
		Short: "Register the postboard MCP server with a coding agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, name := range setup.Agents() {
		c.cmd.AddCommand(c.newAgentCmd(name))
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) newAgentCmd(agent string) *cobra.Command {
	var (
		opts    setup.Options
		pinHome bool
	)
	cmd := &cobra.Command{
		Use:   agent,
		Short: "Register the postboard MCP server with " + agent,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pinHome {
				opts.PostsHome, _ = c.ctx.ResolveHome()
			}
			result, err := setup.Install(agent, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.ConfigDir, "config-dir", "", "Path to the agent config directory")
	cmd.Flags().BoolVar(&opts.Project, "project", false, "Install in current project instead of globally")
	cmd.Flags().BoolVar(&pinHome, "pin-home", false, "Pass the current posts home to the server")
	return cmd
}
