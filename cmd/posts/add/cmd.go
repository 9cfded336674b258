// Package addcmd implements the `posts add` command.
package addcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
)

// Command implements `posts add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	title       string
	content     string
	contentFile string
}

// New creates the add command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "add",
		Short: "Create a new post",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.title, "title", "", "Title of the post (required)")
	f.StringVar(&c.content, "content", "", "Body of the post")
	f.StringVar(&c.contentFile, "content-file", "", "Path to a file containing the body, - for stdin")

	_ = c.cmd.MarkFlagRequired("title")
	c.cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	content := c.content
	switch c.contentFile {
	case "":
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read content from stdin: %w", err)
		}
		content = string(data)
	default:
		data, err := os.ReadFile(c.contentFile)
		if err != nil {
			return fmt.Errorf("failed to read content file %q: %w", c.contentFile, err)
		}
		content = string(data)
	}

	svc, err := c.ctx.OpenService()
	if err != nil {
		return err
	}
	defer svc.Close()

	post, err := svc.SubmitNewPost(c.title, content)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s (id: %d)\n", post.Title, post.ID)
	return nil
}
