// Package listcmd implements the `posts list` command.
package listcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
)

// Command implements `posts list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	html  bool
	count bool
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.BoolVar(&c.html, "html", false, "Print the rendered HTML list instead of plain text")
	f.BoolVar(&c.count, "count", false, "Print only the number of posts")
	c.cmd.MarkFlagsMutuallyExclusive("html", "count")

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
	switch {
	case c.count:
		fmt.Fprintln(out, svc.Count())
		return nil
	case c.html:
		view, err := svc.RenderList()
		if err != nil {
			return err
		}
		fmt.Fprint(out, view.HTML)
		return nil
	}

	posts := svc.List()
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts yet. Create your first post!")
		return nil
	}
	for _, p := range posts {
		fmt.Fprintf(out, "%d  %s  %s\n", p.ID, p.CreatedAtDisplay, p.Title)
	}
	fmt.Fprintf(out, "\n%d post(s)\n", len(posts))
	return nil
}
