// Package service implements the post board orchestrator that wires together
// configuration, storage, the post store, rendering, and export.
package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/go-ports/postboard/internal/config"
	"github.com/go-ports/postboard/internal/db"
	"github.com/go-ports/postboard/internal/export"
	"github.com/go-ports/postboard/internal/markdown"
	"github.com/go-ports/postboard/internal/models"
	"github.com/go-ports/postboard/internal/persist"
	"github.com/go-ports/postboard/internal/render"
	"github.com/go-ports/postboard/internal/store"
)

// ErrValidation is wrapped by every submission rejected for bad input.
var ErrValidation = errors.New("invalid post")

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for post creation and export names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithStorage bypasses the configured backend and uses storage directly.
func WithStorage(storage persist.Storage) Option {
	return func(s *Service) { s.storage = storage }
}

// Service maps the board's user-facing operations onto the post store.
type Service struct {
	Home   string
	Config *config.Config

	logger  *zap.Logger
	now     func() time.Time
	storage persist.Storage
	closer  io.Closer
	adapter *persist.Adapter
	store   *store.Store
	factory *models.Factory
}

// New initialises a Service rooted at home.
// If home is empty it is resolved via config.GetHome.
func New(home string, opts ...Option) (*Service, error) {
	if home == "" {
		home = config.GetHome()
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home dir: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	s := &Service{
		Home:   home,
		Config: cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.storage == nil {
		if err := s.openStorage(); err != nil {
			return nil, err
		}
	}
	s.adapter = persist.NewAdapter(s.storage, cfg.Storage.Key)

	st, err := s.openStore()
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.store = st

	loc, err := cfg.Display.Location()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("service.New: %w", err)
	}
	s.factory = models.NewFactory(
		models.WithClock(s.now),
		models.WithDisplayLayout(cfg.Display.DateLayout),
		models.WithLocation(loc),
	)
	s.factory.Observe(st.MaxID())

	s.logger.Debug("post board opened",
		zap.String("home", home),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("key", s.adapter.Key()),
		zap.Int("posts", st.Len()),
	)
	return s, nil
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *Service) openStorage() error {
	switch s.Config.Storage.Backend {
	case config.BackendMemory:
		s.storage = persist.NewMemoryStorage()
	default:
		database, err := db.Open(s.Config.StoragePath(s.Home))
		if err != nil {
			return fmt.Errorf("service.New: open db: %w", err)
		}
		s.storage = database
		s.closer = database
	}
	return nil
}

// openStore loads the collection, applying the configured policy when the
// stored blob cannot be decoded.
func (s *Service) openStore() (*store.Store, error) {
	st, err := store.Open(s.adapter)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, persist.ErrCorrupt) || s.Config.Storage.OnCorrupt != config.OnCorruptReset {
		return nil, fmt.Errorf("service.New: %w", err)
	}

	s.logger.Warn("stored posts are corrupt, resetting",
		zap.String("key", s.adapter.Key()),
		zap.Error(err),
	)
	if err := s.adapter.Reset(); err != nil {
		return nil, fmt.Errorf("service.New: reset corrupt posts: %w", err)
	}
	st, err = store.Open(s.adapter)
	if err != nil {
		return nil, fmt.Errorf("service.New: %w", err)
	}
	return st, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// SubmitNewPost trims title and content, rejects empty values, and adds the
// new post at the head of the collection.
func (s *Service) SubmitNewPost(title, content string) (models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return models.Post{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if content == "" {
		return models.Post{}, fmt.Errorf("%w: content is required", ErrValidation)
	}

	post, err := s.store.Create(func() models.Post {
		return s.factory.CreatePost(title, content)
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("SubmitNewPost: %w", err)
	}
	s.logger.Info("post created", zap.Int64("id", post.ID), zap.String("title", post.Title))
	return post, nil
}

// RequestDelete removes the post with id and reports whether it existed.
func (s *Service) RequestDelete(id int64) (bool, error) {
	removed, err := s.store.RemoveByID(id)
	if err != nil {
		return false, fmt.Errorf("RequestDelete: %w", err)
	}
	if removed {
		s.logger.Info("post deleted", zap.Int64("id", id))
	} else {
		s.logger.Debug("delete of absent post ignored", zap.Int64("id", id))
	}
	return removed, nil
}

// RequestClear deletes every post and returns how many there were.
func (s *Service) RequestClear() (int, error) {
	n, err := s.store.Clear()
	if err != nil {
		return 0, fmt.Errorf("RequestClear: %w", err)
	}
	s.logger.Info("posts cleared", zap.Int("count", n))
	return n, nil
}

// ---------------------------------------------------------------------------
// Queries and views
// ---------------------------------------------------------------------------

// List returns the collection, newest first.
func (s *Service) List() []models.Post {
	return s.store.All()
}

// Count returns the number of posts.
func (s *Service) Count() int {
	return s.store.Len()
}

// StorageKey returns the key the collection is stored under.
func (s *Service) StorageKey() string {
	return s.adapter.Key()
}

// RequestView returns the post with id. An absent id yields (Post{}, false).
func (s *Service) RequestView(id int64) (models.Post, bool) {
	return s.store.FindByID(id)
}

// RenderList renders the current collection.
func (s *Service) RenderList() (render.ListView, error) {
	return render.RenderList(s.store.All())
}

// RenderDetail renders the post with id. found is false for an absent id.
func (s *Service) RenderDetail(id int64) (markup string, found bool, err error) {
	post, ok := s.store.FindByID(id)
	if !ok {
		return "", false, nil
	}
	markup, err = render.RenderDetail(post)
	if err != nil {
		return "", true, fmt.Errorf("RenderDetail: %w", err)
	}
	return markup, true, nil
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// RequestCopy returns the pretty-printed JSON export for the clipboard.
// It returns export.ErrEmpty when there are no posts.
func (s *Service) RequestCopy() (string, error) {
	return export.ToJSONText(s.store.All())
}

// RequestDownload writes the JSON export into dir (Config.Export.Dir when
// empty) and returns the file path. It returns export.ErrEmpty when there
// are no posts.
func (s *Service) RequestDownload(dir string) (string, error) {
	if dir == "" {
		dir = s.Config.Export.Dir
	}
	path, err := export.WriteDownload(dir, s.store.All(), s.now())
	if err != nil {
		return "", err
	}
	s.logger.Info("posts exported", zap.String("path", path), zap.String("mime", export.MIMEType))
	return path, nil
}

// ExportMarkdown renders the collection as a Markdown document.
// It returns export.ErrEmpty when there are no posts.
func (s *Service) ExportMarkdown() (string, error) {
	posts := s.store.All()
	if len(posts) == 0 {
		return "", export.ErrEmpty
	}
	doc, err := markdown.RenderDocument(posts, s.adapter.Key(), s.now())
	if err != nil {
		return "", fmt.Errorf("ExportMarkdown: %w", err)
	}
	return doc, nil
}
