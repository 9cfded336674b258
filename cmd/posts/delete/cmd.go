// Package deletecmd implements the `posts delete` command.
package deletecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
)

// Command implements `posts delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post by ID",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	id, err := shared.ParseID(args[0])
	if err != nil {
		return err
	}

	svc, err := c.ctx.OpenService()
	if err != nil {
		return err
	}
	defer svc.Close()

	deleted, err := svc.RequestDelete(id)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %d\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No post found for %d\n", id)
	}
	return nil
}
