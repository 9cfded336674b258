// Package viewcmd implements the `posts view` command.
package viewcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
)

// Command implements `posts view`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	html bool
}

// New creates the view command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "view <post-id>",
		Short: "Show a single post",
		Long:  "Show a single post. Nothing is printed when no post has the given id.",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.html, "html", false, "Print the rendered HTML detail view")
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

	out := cmd.OutOrStdout()
	if c.html {
		markup, _, err := svc.RenderDetail(id)
		if err != nil {
			return err
		}
		fmt.Fprint(out, markup)
		return nil
	}

	post, ok := svc.RequestView(id)
	if !ok {
		return nil
	}
	fmt.Fprintf(out, "%s\n%s\n\n%s\n", post.Title, post.CreatedAtDisplay, post.Content)
	return nil
}
