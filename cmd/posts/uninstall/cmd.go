// Package uninstallcmd implements the `posts uninstall` command group.
package uninstallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
	"github.com/go-ports/postboard/internal/setup"
)

// Command implements `posts uninstall`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the uninstall command group with one subcommand per agent.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the postboard MCP server from a coding agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, name := range setup.Agents() {
		c.cmd.AddCommand(newAgentCmd(name))
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newAgentCmd(agent string) *cobra.Command {
	var opts setup.Options
	cmd := &cobra.Command{
		Use:   agent,
		Short: "Remove the postboard MCP server from " + agent,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := setup.Uninstall(agent, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.ConfigDir, "config-dir", "", "Path to the agent config directory")
	cmd.Flags().BoolVar(&opts.Project, "project", false, "Uninstall from current project instead of globally")
	return cmd
}
