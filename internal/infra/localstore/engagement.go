package localstore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/patrickmn/go-cache"
)

const (
	copyFile = "copy_counts.gob"
	likeFile = "likes.gob"
)

// EngagementStore persists the two per-device engagement blobs: copy
// counts (monotonic) and anonymous like toggles, both keyed by record
// id. State is loaded once at construction and written back after every
// change, surviving restarts the way browser storage survives reloads.
type EngagementStore struct {
	mu     sync.Mutex
	dir    string
	copies *cache.Cache
	likes  *cache.Cache
}

func NewEngagementStore(dir string) (*EngagementStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &EngagementStore{
		dir:    dir,
		copies: cache.New(cache.NoExpiration, 0),
		likes:  cache.New(cache.NoExpiration, 0),
	}

	// Missing files just mean a fresh device.
	if _, err := os.Stat(s.path(copyFile)); err == nil {
		if err := s.copies.LoadFile(s.path(copyFile)); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(s.path(likeFile)); err == nil {
		if err := s.likes.LoadFile(s.path(likeFile)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// IncrementCopy bumps the copy counter for a record and returns the new
// value. Counters only ever grow.
func (s *EngagementStore) IncrementCopy(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 1
	if v, found := s.copies.Get(id); found {
		count = v.(int) + 1
	}
	s.copies.Set(id, count, cache.NoExpiration)

	if err := s.copies.SaveFile(s.path(copyFile)); err != nil {
		return 0, err
	}
	return count, nil
}

// ToggleLike flips the anonymous like state for a record and returns the
// new state.
func (s *EngagementStore) ToggleLike(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	liked := true
	if v, found := s.likes.Get(id); found {
		liked = !v.(bool)
	}
	if liked {
		s.likes.Set(id, true, cache.NoExpiration)
	} else {
		s.likes.Delete(id)
	}

	if err := s.likes.SaveFile(s.path(likeFile)); err != nil {
		return false, err
	}
	return liked, nil
}

// CopyCounts snapshots every copy counter.
func (s *EngagementStore) CopyCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]int{}
	for id, item := range s.copies.Items() {
		out[id] = item.Object.(int)
	}
	return out
}

// LikedIDs snapshots the anonymous like toggles.
func (s *EngagementStore) LikedIDs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]bool{}
	for id := range s.likes.Items() {
		out[id] = true
	}
	return out
}

func (s *EngagementStore) path(name string) string {
	return filepath.Join(s.dir, name)
}
