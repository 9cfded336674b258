// Package initcmd implements the `posts init` command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
)

// Command implements `posts init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the post board",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.OpenService()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Post board initialized at %s (%d posts)\n", svc.Home, svc.Count())
	return nil
}
