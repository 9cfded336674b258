// Package markdown renders the post collection as an Obsidian-compatible
// Markdown document.
package markdown

import (
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/postboard/internal/models"
)

// frontmatter is the YAML header written at the top of an export.
type frontmatter struct {
	Title    string  `yaml:"title"`
	Exported string  `yaml:"exported"`
	Count    int     `yaml:"count"`
	PostIDs  []int64 `yaml:"post_ids,flow"`
	Source   string  `yaml:"source"`
}

// RenderSection produces a single ## heading block for a post.
func RenderSection(post models.Post) string {
	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(post.Title)
	sb.WriteString("\n*")
	sb.WriteString(post.CreatedAtDisplay)
	sb.WriteString("* · id `")
	sb.WriteString(strconv.FormatInt(post.ID, 10))
	sb.WriteString("`\n\n")
	sb.WriteString(post.Content)
	return sb.String()
}

// RenderDocument returns front-matter followed by one section per post in
// collection order. source names where the posts were read from.
func RenderDocument(posts []models.Post, source string, exportedAt time.Time) (string, error) {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	fm, err := yaml.Marshal(frontmatter{
		Title:    "Posts",
		Exported: exportedAt.UTC().Format(time.RFC3339),
		Count:    len(posts),
		PostIDs:  ids,
		Source:   source,
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	sb.WriteString("---\n\n# Posts\n")
	for _, p := range posts {
		sb.WriteString("\n")
		sb.WriteString(RenderSection(p))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
