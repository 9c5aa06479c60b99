// Package store tracks generated deck files in memory and reclaims them
// once their download window has passed.
package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"salesdeck/logger"
)

var (
	// ErrNotFound means the id was never issued, or its record was
	// already reclaimed (including the backing file vanishing from disk).
	ErrNotFound = errors.New("file not found")
	// ErrExpired means the id was known but its lifetime has elapsed.
	ErrExpired = errors.New("file expired")
)

// Record describes one generated artifact. Records are immutable once
// inserted; they are only ever removed.
type Record struct {
	ID        string
	Path      string
	Filename  string
	CreatedAt time.Time
}

// Store is a mutex-guarded registry of generated files. It is shared
// between the request handlers and the background cleanup goroutine, so
// every read-modify-write sequence happens under the lock.
type Store struct {
	mu       sync.Mutex
	files    map[string]Record
	lifetime time.Duration
	log      *logger.Logger
}

// New creates a Store whose records expire after lifetime.
func New(lifetime time.Duration, log *logger.Logger) *Store {
	return &Store{
		files:    make(map[string]Record),
		lifetime: lifetime,
		log:      log,
	}
}

// Register stores a record for a file that exists at path and returns its
// fresh id. The caller guarantees path validity at call time.
func (s *Store) Register(path, filename string) string {
	id := uuid.NewString()
	rec := Record{
		ID:        id,
		Path:      path,
		Filename:  filename,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.files[id] = rec
	s.mu.Unlock()

	return id
}

// Fetch looks up a record by id. A record whose backing file is missing is
// evicted and reported as ErrNotFound regardless of age; a record past its
// lifetime has its file deleted and is reported as ErrExpired.
func (s *Store) Fetch(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[id]
	if !ok {
		return Record{}, ErrNotFound
	}

	if _, err := os.Stat(rec.Path); err != nil {
		delete(s.files, id)
		return Record{}, ErrNotFound
	}

	if time.Since(rec.CreatedAt) > s.lifetime {
		if err := os.Remove(rec.Path); err != nil {
			s.log.Logf("[STORE] failed to remove expired file %s: %v", rec.Path, err)
		}
		delete(s.files, id)
		return Record{}, ErrExpired
	}

	return rec, nil
}

// EvictExpired removes every record past its lifetime and deletes the
// backing files. File deletion is best-effort: a failure is logged and the
// record is still dropped. Returns the number of records removed.
func (s *Store) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.files {
		if time.Since(rec.CreatedAt) <= s.lifetime {
			continue
		}
		if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
			s.log.Logf("[STORE] failed to remove expired file %s: %v", rec.Path, err)
		}
		delete(s.files, id)
		removed++
	}
	return removed
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// StartCleanup launches the reclamation goroutine. It runs EvictExpired
// every interval until ctx is cancelled. A failing pass never terminates
// the loop.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.cleanupPass()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Store) cleanupPass() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Logf("[STORE] cleanup pass panic recovered: %v", r)
		}
	}()

	if n := s.EvictExpired(); n > 0 {
		s.log.Logf("[STORE] reclaimed %d expired file(s)", n)
	}
}
