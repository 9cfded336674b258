package persist_test

import (
	"errors"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/postboard/internal/db"
	"github.com/go-ports/postboard/internal/models"
	"github.com/go-ports/postboard/internal/persist"
)

var errQuota = errors.New("quota exceeded")

// brokenStorage fails every call with err.
type brokenStorage struct{ err error }

func (b brokenStorage) GetItem(string) (string, bool, error) { return "", false, b.err }
func (b brokenStorage) SetItem(string, string) error         { return b.err }
func (b brokenStorage) RemoveItem(string) error              { return b.err }

func samplePosts() []models.Post {
	return []models.Post{
		{ID: 2, Title: "Second", Content: "Post", CreatedAt: "2024-01-15T10:00:01.000Z", CreatedAtDisplay: "1/15/2024, 10:00:01 AM"},
		{ID: 1, Title: "Hello", Content: "World\nline two", CreatedAt: "2024-01-15T10:00:00.000Z", CreatedAtDisplay: "1/15/2024, 10:00:00 AM"},
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_HappyPath(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name    string
		blob    *string
		wantLen int
	}{
		{name: "absent key yields empty collection", blob: nil, wantLen: 0},
		{name: "empty array", blob: ptr("[]"), wantLen: 0},
		{name: "json null", blob: ptr("null"), wantLen: 0},
		{name: "one post", blob: ptr(`[{"id":7,"title":"t","content":"c","createdAt":"x","createdAtDisplay":"y"}]`), wantLen: 1},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			mem := persist.NewMemoryStorage()
			if tt.blob != nil {
				c.Assert(mem.SetItem(persist.DefaultKey, *tt.blob), qt.IsNil)
			}
			posts, err := persist.NewAdapter(mem, "").Load()
			c.Assert(err, qt.IsNil)
			c.Assert(posts, qt.IsNotNil)
			c.Assert(posts, qt.HasLen, tt.wantLen)
		})
	}
}

func TestLoad_FailurePath(t *testing.T) {
	c := qt.New(t)

	for _, blob := range []string{"", "{not json", `{"id":1}`, `[{"id":"seven"}]`} {
		c.Run("corrupt blob "+blob, func(c *qt.C) {
			mem := persist.NewMemoryStorage()
			c.Assert(mem.SetItem(persist.DefaultKey, blob), qt.IsNil)

			_, err := persist.NewAdapter(mem, "").Load()
			c.Assert(err, qt.ErrorIs, persist.ErrCorrupt)
		})
	}

	c.Run("storage read error propagates", func(c *qt.C) {
		_, err := persist.NewAdapter(brokenStorage{errQuota}, "").Load()
		c.Assert(err, qt.ErrorIs, errQuota)
		c.Assert(errors.Is(err, persist.ErrCorrupt), qt.IsFalse)
	})
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestSave_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("round trip preserves posts and order", func(c *qt.C) {
		a := persist.NewAdapter(persist.NewMemoryStorage(), "")
		c.Assert(a.Save(samplePosts()), qt.IsNil)

		got, err := a.Load()
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.DeepEquals, samplePosts())
	})

	c.Run("blob uses the documented field order", func(c *qt.C) {
		mem := persist.NewMemoryStorage()
		a := persist.NewAdapter(mem, "")
		c.Assert(a.Save(samplePosts()[1:]), qt.IsNil)

		blob, ok, err := mem.GetItem(persist.DefaultKey)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
		c.Assert(blob, qt.Equals,
			`[{"id":1,"title":"Hello","content":"World\nline two","createdAt":"2024-01-15T10:00:00.000Z","createdAtDisplay":"1/15/2024, 10:00:00 AM"}]`)
	})

	c.Run("nil collection is stored as an empty array", func(c *qt.C) {
		mem := persist.NewMemoryStorage()
		c.Assert(persist.NewAdapter(mem, "").Save(nil), qt.IsNil)

		blob, _, err := mem.GetItem(persist.DefaultKey)
		c.Assert(err, qt.IsNil)
		c.Assert(blob, qt.Equals, "[]")
	})

	c.Run("custom key is honoured", func(c *qt.C) {
		mem := persist.NewMemoryStorage()
		a := persist.NewAdapter(mem, "notes")
		c.Assert(a.Key(), qt.Equals, "notes")
		c.Assert(a.Save(samplePosts()), qt.IsNil)

		_, ok, _ := mem.GetItem(persist.DefaultKey)
		c.Assert(ok, qt.IsFalse)
		_, ok, _ = mem.GetItem("notes")
		c.Assert(ok, qt.IsTrue)
	})

	c.Run("sqlite storage round trip", func(c *qt.C) {
		d, err := db.Open(filepath.Join(c.TempDir(), "posts.db"))
		c.Assert(err, qt.IsNil)
		defer d.Close()

		a := persist.NewAdapter(d, "")
		c.Assert(a.Save(samplePosts()), qt.IsNil)
		got, err := a.Load()
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.DeepEquals, samplePosts())
	})
}

func TestSave_FailurePath(t *testing.T) {
	c := qt.New(t)

	err := persist.NewAdapter(brokenStorage{errQuota}, "").Save(samplePosts())
	c.Assert(err, qt.ErrorIs, errQuota)
}

// ---------------------------------------------------------------------------
// Reset
// ---------------------------------------------------------------------------

func TestReset(t *testing.T) {
	c := qt.New(t)

	mem := persist.NewMemoryStorage()
	c.Assert(mem.SetItem(persist.DefaultKey, "{garbage"), qt.IsNil)

	a := persist.NewAdapter(mem, "")
	c.Assert(a.Reset(), qt.IsNil)

	posts, err := a.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(posts, qt.HasLen, 0)

	c.Assert(persist.NewAdapter(brokenStorage{errQuota}, "").Reset(), qt.ErrorIs, errQuota)
}

func ptr(s string) *string { return &s }
