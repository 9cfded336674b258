// Package persist reads and writes the whole post collection as a single
// JSON blob under one storage key.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-ports/postboard/internal/models"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "blogs"

// ErrCorrupt is returned by Load when the stored blob is not a JSON array of posts.
var ErrCorrupt = errors.New("stored post collection is corrupt")

// Storage is a string-keyed, single-string-value store with
// last-write-wins semantics.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Adapter converts between a post collection and the blob stored under key.
// It holds no collection state; every Save is a full overwrite.
type Adapter struct {
	storage Storage
	key     string
}

// NewAdapter returns an Adapter over storage. An empty key selects DefaultKey.
func NewAdapter(storage Storage, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{storage: storage, key: key}
}

// Key returns the storage key the collection lives under.
func (a *Adapter) Key() string { return a.key }

// Load returns the stored collection. A missing key yields an empty
// collection; an unparsable blob yields an error wrapping ErrCorrupt.
func (a *Adapter) Load() ([]models.Post, error) {
	blob, ok, err := a.storage.GetItem(a.key)
	if err != nil {
		return nil, fmt.Errorf("persist.Load: %w", err)
	}
	if !ok {
		return make([]models.Post, 0), nil
	}

	var posts []models.Post
	if err := json.Unmarshal([]byte(blob), &posts); err != nil {
		return nil, fmt.Errorf("persist.Load: %w: %v", ErrCorrupt, err)
	}
	if posts == nil {
		posts = make([]models.Post, 0)
	}
	return posts, nil
}

// Save serializes posts and writes them under the key, replacing any prior blob.
func (a *Adapter) Save(posts []models.Post) error {
	if posts == nil {
		posts = make([]models.Post, 0)
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("persist.Save: encode: %w", err)
	}
	if err := a.storage.SetItem(a.key, string(data)); err != nil {
		return fmt.Errorf("persist.Save: %w", err)
	}
	return nil
}

// Reset removes the stored blob entirely.
func (a *Adapter) Reset() error {
	if err := a.storage.RemoveItem(a.key); err != nil {
		return fmt.Errorf("persist.Reset: %w", err)
	}
	return nil
}
