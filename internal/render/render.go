// Package render turns posts into HTML markup. Every function is pure; a
// presentation layer outside this package decides where the markup goes.
//
// User text is escaped by html/template, so characters such as <, >, &
// and quotes in a title or body never reach the output unencoded.
package render

import (
	"html/template"
	"strings"

	"github.com/go-ports/postboard/internal/models"
)

// ListView is the rendered post list plus the state the surrounding page
// needs to decide which controls to show.
type ListView struct {
	HTML         string
	ShowClearAll bool
	Count        int
}

const listTemplate = `{{if not .}}<p class="no-posts">No posts yet. Create your first post!</p>
{{else}}{{range .}}<article class="post-card" data-id="{{.ID}}">
  <h3 class="post-title">{{.Title}}</h3>
  <p class="post-content">{{.Content}}</p>
  <time class="post-date" datetime="{{.CreatedAt}}">{{.CreatedAtDisplay}}</time>
  <div class="post-actions">
    <button type="button" class="view-btn" data-action="view" data-id="{{.ID}}">View</button>
    <button type="button" class="delete-btn" data-action="delete" data-id="{{.ID}}">Delete</button>
  </div>
</article>
{{end}}{{end}}`

const detailTemplate = `<article class="post-detail" data-id="{{.ID}}">
  <h2 class="post-title">{{.Title}}</h2>
  <time class="post-date" datetime="{{.CreatedAt}}">{{.CreatedAtDisplay}}</time>
  <div class="post-content">{{lines .Content}}</div>
</article>
`

var (
	listTmpl   = template.Must(template.New("list").Parse(listTemplate))
	detailTmpl = template.Must(template.New("detail").Funcs(template.FuncMap{
		"lines": lines,
	}).Parse(detailTemplate))
)

// RenderList renders one card per post in collection order, or a single
// placeholder when posts is empty.
func RenderList(posts []models.Post) (ListView, error) {
	var sb strings.Builder
	if err := listTmpl.Execute(&sb, posts); err != nil {
		return ListView{}, err
	}
	return ListView{
		HTML:         sb.String(),
		ShowClearAll: len(posts) > 0,
		Count:        Count(posts),
	}, nil
}

// RenderDetail renders the full view of a single post. Each newline in the
// body becomes exactly one <br>.
func RenderDetail(post models.Post) (string, error) {
	var sb strings.Builder
	if err := detailTmpl.Execute(&sb, post); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Count returns the number of posts for display.
func Count(posts []models.Post) int {
	return len(posts)
}

// lines escapes each line of s and joins them with <br>.
func lines(s string) template.HTML {
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = template.HTMLEscapeString(p)
	}
	return template.HTML(strings.Join(parts, "<br>")) // #nosec G203 -- every part is escaped above
}
