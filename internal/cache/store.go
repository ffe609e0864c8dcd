package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fileExtension = ".json"

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// Store is a directory of JSON entry files. Safe for concurrent use.
type Store struct {
	directory  string
	enabled    bool
	ttlSeconds int

	mu sync.RWMutex
}

// NewStore opens (creating if needed) a store in directory. A disabled store
// is valid and answers every call with ErrDisabled.
func NewStore(directory string, enabled bool, ttlSeconds int) (*Store, error) {
	if !enabled {
		return &Store{}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttlSeconds <= 0 {
		return nil, fmt.Errorf("cache ttl must be > 0, got %d", ttlSeconds)
	}
	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{directory: directory, enabled: true, ttlSeconds: ttlSeconds}, nil
}

// Key joins the parts into a stable, filesystem-safe key.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get returns the entry for key. Expired entries are removed and reported
// as ErrExpired.
func (s *Store) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	path := s.path(key)
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set writes data under key, replacing any existing entry.
func (s *Store) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	entryData, err := json.MarshalIndent(NewEntry(key, data, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, entryData, 0600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// Delete removes key. Missing entries are not an error.
func (s *Store) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear() (int, error) {
	return s.sweep(func(*Entry) bool { return true })
}

// Prune removes expired or unreadable entries and returns how many were deleted.
func (s *Store) Prune() (int, error) {
	return s.sweep(func(e *Entry) bool { return e == nil || e.IsExpired() })
}

func (s *Store) sweep(drop func(*Entry) bool) (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != fileExtension {
			continue
		}
		path := filepath.Join(s.directory, f.Name())

		var entry *Entry
		if data, readErr := os.ReadFile(path); readErr == nil {
			var e Entry
			if json.Unmarshal(data, &e) == nil {
				entry = &e
			}
		}
		if !drop(entry) {
			continue
		}
		if err = os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove cache file %s: %w", f.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Stats summarises the store contents.
type Stats struct {
	Directory string `json:"directory"`
	Entries   int    `json:"entries"`
	Expired   int    `json:"expired"`
	Bytes     int64  `json:"bytes"`
}

// Stats walks the directory and counts entries.
func (s *Store) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := os.ReadDir(s.directory)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read cache directory: %w", err)
	}

	st := Stats{Directory: s.directory}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != fileExtension {
			continue
		}
		info, infoErr := f.Info()
		if infoErr != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()

		data, readErr := os.ReadFile(filepath.Join(s.directory, f.Name()))
		if readErr != nil {
			continue
		}
		var e Entry
		if json.Unmarshal(data, &e) == nil && e.IsExpired() {
			st.Expired++
		}
	}
	return st, nil
}

// Enabled reports whether the store is active.
func (s *Store) Enabled() bool {
	return s.enabled
}

// TTL returns the TTL applied to new entries, in seconds.
func (s *Store) TTL() int {
	return s.ttlSeconds
}

func (s *Store) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safe+fileExtension)
}
