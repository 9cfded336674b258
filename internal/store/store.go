// Package store holds the canonical, newest-first post collection and keeps
// durable storage in step with it.
package store

import (
	"fmt"
	"sync"

	"github.com/go-ports/postboard/internal/models"
)

// Persister loads and saves the full collection.
type Persister interface {
	Load() ([]models.Post, error)
	Save(posts []models.Post) error
}

// Store owns the in-memory collection. Every mutation is saved before the
// call returns; when the save fails the mutation is undone so memory and
// storage never disagree.
type Store struct {
	persister Persister

	mu    sync.RWMutex
	posts []models.Post
}

// Open loads the collection through p and returns a Store over it.
func Open(p Persister) (*Store, error) {
	posts, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	return &Store{persister: p, posts: posts}, nil
}

// Add prepends post so it becomes the first element, then saves.
func (s *Store) Add(post models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prepend(post); err != nil {
		return fmt.Errorf("store.Add: %w", err)
	}
	return nil
}

// Create calls build and prepends its result while holding the write lock,
// so posts built by concurrent callers land in the order they were built.
func (s *Store) Create(build func() models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := build()
	if err := s.prepend(post); err != nil {
		return models.Post{}, fmt.Errorf("store.Create: %w", err)
	}
	return post, nil
}

// prepend must be called with s.mu held.
func (s *Store) prepend(post models.Post) error {
	next := make([]models.Post, 0, len(s.posts)+1)
	next = append(next, post)
	next = append(next, s.posts...)

	if err := s.persister.Save(next); err != nil {
		return err
	}
	s.posts = next
	return nil
}

// RemoveByID removes the post with the given id and reports whether one was
// removed. An absent id is a no-op.
func (s *Store) RemoveByID(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, p := range s.posts {
		if p.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return false, nil
	}

	next := make([]models.Post, 0, len(s.posts)-1)
	next = append(next, s.posts[:index]...)
	next = append(next, s.posts[index+1:]...)

	if err := s.persister.Save(next); err != nil {
		return false, fmt.Errorf("store.RemoveByID: %w", err)
	}
	s.posts = next
	return true, nil
}

// Clear empties the collection, saves the empty sequence, and returns how
// many posts were removed.
func (s *Store) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.posts)
	next := make([]models.Post, 0)
	if err := s.persister.Save(next); err != nil {
		return 0, fmt.Errorf("store.Clear: %w", err)
	}
	s.posts = next
	return n, nil
}

// All returns a copy of the collection, newest first.
func (s *Store) All() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, len(s.posts))
	copy(posts, s.posts)
	return posts
}

// FindByID returns the post with the given id, if present.
func (s *Store) FindByID(id int64) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// Len returns the number of posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// MaxID returns the largest id in the collection, or 0 when empty.
func (s *Store) MaxID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var maxID int64
	for _, p := range s.posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID
}
