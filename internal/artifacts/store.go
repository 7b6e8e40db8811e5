// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifacts indexes rendered word-cloud images by paper id. Entries
// expire after a TTL and an expired or deleted entry removes its file.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/paper-insights/internal/acquire"
)

const defaultTTL = time.Hour

// Store maps paper ids to image paths under one directory.
type Store struct {
	dir   string
	cache *gocache.Cache
	log   *slog.Logger

	// mu guards reserved and orders file removal against new renders.
	mu       sync.Mutex
	reserved map[string]int
}

// New creates dir if needed and returns a store whose entries live for ttl.
// A non-positive ttl uses one hour.
func New(dir string, ttl time.Duration, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory %s: %w", dir, err)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}

	s := &Store{
		dir:      dir,
		cache:    gocache.New(ttl, cleanup),
		log:      log,
		reserved: make(map[string]int),
	}
	s.cache.OnEvicted(s.evicted)
	return s, nil
}

// Dir returns the directory holding the images.
func (s *Store) Dir() string { return s.dir }

// Path returns where the image for the paper id is written. Distinct ids
// map to distinct files.
func (s *Store) Path(paperID string) string {
	return filepath.Join(s.dir, "wordcloud-"+acquire.Slug(paperID)+".png")
}

// Reserve returns the image path of the paper id and protects that file
// from eviction until Put or Release. Call it before writing the image.
func (s *Store) Reserve(paperID string) string {
	path := s.Path(paperID)
	s.mu.Lock()
	s.reserved[path]++
	s.mu.Unlock()
	return path
}

// Release drops a reservation whose image was never written.
func (s *Store) Release(paperID string) {
	s.release(s.Path(paperID))
}

func (s *Store) release(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved[path] <= 1 {
		delete(s.reserved, path)
		return
	}
	s.reserved[path]--
}

// Put registers the image at path for the paper id and ends a reservation
// of path, if any. The previous image of the id, if any, is replaced
// without deleting the new file.
func (s *Store) Put(paperID, path string) {
	if old, ok := s.cache.Get(paperID); ok && old.(string) != path {
		s.cache.Delete(paperID)
	}
	s.cache.SetDefault(paperID, path)
	s.release(path)
}

// Get returns the image path of the paper id while its entry is fresh and
// the file still exists.
func (s *Store) Get(paperID string) (string, bool) {
	v, ok := s.cache.Get(paperID)
	if !ok {
		return "", false
	}
	path := v.(string)
	if _, err := os.Stat(path); err != nil {
		s.cache.Delete(paperID)
		return "", false
	}
	return path, true
}

// Delete drops the entry of the paper id and removes its image.
func (s *Store) Delete(paperID string) {
	s.cache.Delete(paperID)
}

// Len returns the number of indexed images, including expired entries not
// yet swept.
func (s *Store) Len() int { return s.cache.ItemCount() }

// Close removes every indexed image.
func (s *Store) Close() error {
	s.cache.DeleteExpired()
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
	return nil
}

// evicted removes the file of a dropped entry unless a render holds a
// reservation on it or a live entry points at it again.
func (s *Store) evicted(paperID string, v interface{}) {
	path, _ := v.(string)
	if path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved[path] > 0 {
		s.log.Debug("word cloud eviction skipped, render in progress", slog.String("paper_id", paperID))
		return
	}
	if cur, ok := s.cache.Get(paperID); ok && cur.(string) == path {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("removing evicted word cloud",
			slog.String("paper_id", paperID),
			slog.String("path", path),
			slog.Any("err", err))
		return
	}
	s.log.Debug("word cloud evicted", slog.String("paper_id", paperID))
}
