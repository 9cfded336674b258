// Package exportcmd implements the `posts export` command.
package exportcmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/postboard/cmd/posts/shared"
	"github.com/go-ports/postboard/internal/export"
)

// Export formats.
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

// Command implements `posts export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	download bool
	dir      string
	format   string
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export",
		Short: "Export all posts",
		Long: `Export all posts.

By default the pretty-printed JSON array is written to stdout, ready to be
piped to a clipboard tool. With --download it is written to
blogs_<epoch-ms>.json in --dir (default: export.dir from config.yaml).`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.BoolVar(&c.download, "download", false, "Write the export to a file instead of stdout")
	f.StringVar(&c.dir, "dir", "", "Directory for --download")
	f.StringVar(&c.format, "format", formatJSON, "Output format: json | markdown")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	switch c.format {
	case formatJSON:
	case formatMarkdown:
		if c.download {
			return fmt.Errorf("--download supports only --format %s", formatJSON)
		}
	default:
		return fmt.Errorf("unknown format %q: want %s or %s", c.format, formatJSON, formatMarkdown)
	}

	svc, err := c.ctx.OpenService()
	if err != nil {
		return err
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	var text string
	switch {
	case c.download:
		var path string
		path, err = svc.RequestDownload(c.dir)
		if err == nil {
			fmt.Fprintf(out, "Exported %d post(s) to %s\n", svc.Count(), path)
			return nil
		}
	case c.format == formatMarkdown:
		text, err = svc.ExportMarkdown()
	default:
		text, err = svc.RequestCopy()
	}
	if errors.Is(err, export.ErrEmpty) {
		fmt.Fprintln(out, "No posts to export.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}
