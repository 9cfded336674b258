package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"

	"github.com/go-ports/postboard/internal/export"
	"github.com/go-ports/postboard/internal/models"
)

func samplePosts() []models.Post {
	return []models.Post{
		{ID: 1705312801000, Title: "Second", Content: "Post", CreatedAt: "2024-01-15T10:00:01.000Z", CreatedAtDisplay: "1/15/2024, 10:00:01 AM"},
		{ID: 1705312800000, Title: "Hello", Content: "World", CreatedAt: "2024-01-15T10:00:00.000Z", CreatedAtDisplay: "1/15/2024, 10:00:00 AM"},
	}
}

// readPath decodes text and evaluates a JSONPath expression against it.
func readPath(c *qt.C, text, path string) any {
	var doc any
	c.Assert(json.Unmarshal([]byte(text), &doc), qt.IsNil)
	v, err := jsonpath.Read(doc, path)
	c.Assert(err, qt.IsNil)
	return v
}

// ---------------------------------------------------------------------------
// ToJSONText
// ---------------------------------------------------------------------------

func TestToJSONText_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("two posts keep collection order", func(c *qt.C) {
		text, err := export.ToJSONText(samplePosts())
		c.Assert(err, qt.IsNil)

		c.Assert(readPath(c, text, "$[0].title"), qt.Equals, "Second")
		c.Assert(readPath(c, text, "$[1].title"), qt.Equals, "Hello")
		c.Assert(readPath(c, text, "$[0].id"), qt.Equals, float64(1705312801000))
		c.Assert(readPath(c, text, "$[1].createdAtDisplay"), qt.Equals, "1/15/2024, 10:00:00 AM")

		var decoded []models.Post
		c.Assert(json.Unmarshal([]byte(text), &decoded), qt.IsNil)
		c.Assert(decoded, qt.DeepEquals, samplePosts())
	})

	c.Run("two space indentation and field order", func(c *qt.C) {
		text, err := export.ToJSONText(samplePosts()[1:])
		c.Assert(err, qt.IsNil)
		c.Assert(text, qt.Equals, `[
  {
    "id": 1705312800000,
    "title": "Hello",
    "content": "World",
    "createdAt": "2024-01-15T10:00:00.000Z",
    "createdAtDisplay": "1/15/2024, 10:00:00 AM"
  }
]`)
	})
}

func TestToJSONText_FailurePath(t *testing.T) {
	c := qt.New(t)

	for _, posts := range [][]models.Post{nil, {}} {
		text, err := export.ToJSONText(posts)
		c.Assert(err, qt.ErrorIs, export.ErrEmpty)
		c.Assert(text, qt.Equals, "")
	}
}

// ---------------------------------------------------------------------------
// DownloadName
// ---------------------------------------------------------------------------

func TestDownloadName(t *testing.T) {
	c := qt.New(t)

	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c.Assert(export.DownloadName(at), qt.Equals, "blogs_1705312800000.json")
	c.Assert(export.DownloadName(at.Add(time.Millisecond)), qt.Equals, "blogs_1705312800001.json")

	// Same millisecond, same name.
	c.Assert(export.DownloadName(at.Add(400*time.Microsecond)), qt.Equals, export.DownloadName(at))
}

// ---------------------------------------------------------------------------
// WriteDownload
// ---------------------------------------------------------------------------

func TestWriteDownload_HappyPath(t *testing.T) {
	c := qt.New(t)

	dir := filepath.Join(t.TempDir(), "downloads")
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	path, err := export.WriteDownload(dir, samplePosts(), at)
	c.Assert(err, qt.IsNil)
	c.Assert(path, qt.Equals, filepath.Join(dir, "blogs_1705312800000.json"))

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	want, err := export.ToJSONText(samplePosts())
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, want+"\n")

	// No temp files are left behind.
	entries, err := os.ReadDir(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
}

func TestWriteDownload_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("empty collection writes nothing", func(c *qt.C) {
		dir := t.TempDir()
		_, err := export.WriteDownload(dir, nil, time.Now())
		c.Assert(err, qt.ErrorIs, export.ErrEmpty)

		entries, err := os.ReadDir(dir)
		c.Assert(err, qt.IsNil)
		c.Assert(entries, qt.HasLen, 0)
	})

	c.Run("target directory is a file", func(c *qt.C) {
		file := filepath.Join(t.TempDir(), "not-a-dir")
		c.Assert(os.WriteFile(file, []byte("x"), 0o600), qt.IsNil)

		_, err := export.WriteDownload(file, samplePosts(), time.Now())
		c.Assert(err, qt.IsNotNil)
	})
}

func TestMIMEType(t *testing.T) {
	qt.New(t).Assert(export.MIMEType, qt.Equals, "application/json")
}
