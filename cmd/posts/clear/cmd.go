// Package clearcmd implements the `posts clear` command.
package clearcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
)

// Command implements `posts clear`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	yes bool
}

// New creates the clear command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete every post",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Confirm deletion of all posts")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.OpenService()
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	n := svc.Count()
	if n == 0 {
		fmt.Fprintln(out, "No posts to clear.")
		return nil
	}
	if !c.yes {
		return fmt.Errorf("refusing to delete %d post(s) without --yes", n)
	}

	cleared, err := svc.RequestClear()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Cleared %d post(s)\n", cleared)
	return nil
}
