// Package models defines the Post record and the factory that creates it.
package models

import (
	"sync"
	"time"
)

// TimestampLayout is the canonical ISO 8601 form of Post.CreatedAt:
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DefaultDisplayLayout mimics an en-US locale date-time string.
const DefaultDisplayLayout = "1/2/2006, 3:04:05 PM"

// Post is a single user-authored record. Field order matches the
// serialized JSON shape.
type Post struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Content          string `json:"content"`
	CreatedAt        string `json:"createdAt"`
	CreatedAtDisplay string `json:"createdAtDisplay"`
}

// CreatedTime parses CreatedAt.
func (p Post) CreatedTime() (time.Time, error) {
	return time.Parse(TimestampLayout, p.CreatedAt)
}

// ---------------------------------------------------------------------------
// Factory
// ---------------------------------------------------------------------------

// Option configures a Factory.
type Option func(*Factory)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// WithDisplayLayout sets the time layout used for CreatedAtDisplay.
func WithDisplayLayout(layout string) Option {
	return func(f *Factory) {
		if layout != "" {
			f.layout = layout
		}
	}
}

// WithLocation sets the zone CreatedAtDisplay is rendered in.
func WithLocation(loc *time.Location) Option {
	return func(f *Factory) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// Factory creates posts. IDs are epoch milliseconds at creation, bumped
// past the last issued ID when the clock has not advanced, so they are
// strictly increasing for a single factory.
//
// The factory does not validate title or content; callers do.
type Factory struct {
	now    func() time.Time
	layout string
	loc    *time.Location

	mu     sync.Mutex
	lastID int64
}

// NewFactory returns a Factory using time.Now, DefaultDisplayLayout and
// the local time zone unless overridden.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		now:    time.Now,
		layout: DefaultDisplayLayout,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Observe records an ID that already exists so later IDs are issued above it.
func (f *Factory) Observe(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id > f.lastID {
		f.lastID = id
	}
}

// CreatePost builds a new Post stamped with the current time.
func (f *Factory) CreatePost(title, content string) Post {
	now := f.now()

	f.mu.Lock()
	id := now.UnixMilli()
	if id <= f.lastID {
		id = f.lastID + 1
	}
	f.lastID = id
	f.mu.Unlock()

	return Post{
		ID:               id,
		Title:            title,
		Content:          content,
		CreatedAt:        now.UTC().Format(TimestampLayout),
		CreatedAtDisplay: now.In(f.loc).Format(f.layout),
	}
}
