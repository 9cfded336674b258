package models_test

import (
	"testing"
	"time"
	_ "time/tzdata" // America/New_York without relying on the host zoneinfo

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/postboard/internal/models"
)

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreatePost_HappyPath(t *testing.T) {
	c := qt.New(t)

	at := time.Date(2024, 1, 15, 10, 30, 45, 123_000_000, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	c.Assert(err, qt.IsNil)

	tests := []struct {
		name        string
		opts        []models.Option
		title       string
		content     string
		wantDisplay string
	}{
		{
			name:        "default layout in UTC",
			opts:        []models.Option{models.WithLocation(time.UTC)},
			title:       "Hello",
			content:     "World",
			wantDisplay: "1/15/2024, 10:30:45 AM",
		},
		{
			name:        "display rendered in configured zone",
			opts:        []models.Option{models.WithLocation(ny)},
			title:       "Zoned",
			content:     "body",
			wantDisplay: "1/15/2024, 5:30:45 AM",
		},
		{
			name:        "custom layout",
			opts:        []models.Option{models.WithLocation(time.UTC), models.WithDisplayLayout("2006-01-02 15:04")},
			title:       "Layout",
			content:     "body",
			wantDisplay: "2024-01-15 10:30",
		},
		{
			name:        "empty strings are not rejected",
			opts:        []models.Option{models.WithLocation(time.UTC)},
			title:       "",
			content:     "",
			wantDisplay: "1/15/2024, 10:30:45 AM",
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			opts := append([]models.Option{models.WithClock(fixedClock(at))}, tt.opts...)
			f := models.NewFactory(opts...)

			p := f.CreatePost(tt.title, tt.content)
			c.Assert(p.ID, qt.Equals, at.UnixMilli())
			c.Assert(p.Title, qt.Equals, tt.title)
			c.Assert(p.Content, qt.Equals, tt.content)
			c.Assert(p.CreatedAt, qt.Equals, "2024-01-15T10:30:45.123Z")
			c.Assert(p.CreatedAtDisplay, qt.Equals, tt.wantDisplay)

			created, err := p.CreatedTime()
			c.Assert(err, qt.IsNil)
			c.Assert(created.Equal(at), qt.IsTrue)
		})
	}
}

func TestCreatePost_IDsStrictlyIncrease(t *testing.T) {
	c := qt.New(t)

	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	f := models.NewFactory(models.WithClock(fixedClock(at)))

	a := f.CreatePost("a", "a")
	b := f.CreatePost("b", "b")
	d := f.CreatePost("d", "d")
	c.Assert(a.ID, qt.Equals, at.UnixMilli())
	c.Assert(b.ID, qt.Equals, a.ID+1)
	c.Assert(d.ID, qt.Equals, b.ID+1)

	// CreatedAt still reflects the clock, not the bumped id.
	c.Assert(b.CreatedAt, qt.Equals, a.CreatedAt)
}

func TestObserve(t *testing.T) {
	c := qt.New(t)

	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	c.Run("ids are issued above an observed future id", func(c *qt.C) {
		f := models.NewFactory(models.WithClock(fixedClock(at)))
		f.Observe(at.UnixMilli() + 500)
		c.Assert(f.CreatePost("t", "c").ID, qt.Equals, at.UnixMilli()+501)
	})

	c.Run("observing an older id has no effect", func(c *qt.C) {
		f := models.NewFactory(models.WithClock(fixedClock(at)))
		f.Observe(42)
		c.Assert(f.CreatePost("t", "c").ID, qt.Equals, at.UnixMilli())
	})
}

func TestCreatedTime_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := models.Post{CreatedAt: "yesterday"}.CreatedTime()
	c.Assert(err, qt.IsNotNil)
}
