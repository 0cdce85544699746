// Package localstate persists small client preferences in a key/value
// file, the terminal equivalent of the browser's local storage. Key
// names are shared with the coexisting web client and must not change.
package localstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Keys shared with the legacy web client.
const (
	// TokenKey stores the bearer token.
	TokenKey = "pda:token"
	// VlibrasKey stores the sign-language widget opt-in flag.
	VlibrasKey = "pda:vlibras"
)

// ViewModeKey returns the per-list view mode key, e.g. "pda:viewMode:mine".
func ViewModeKey(page string) string {
	return "pda:viewMode:" + page
}

// Store is a file-backed key/value store. The session store is the only
// writer of the token key; everything else treats it as read-only.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads the store at path, treating a missing file as empty.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("localstate: open %s: %w", path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.values); err != nil {
			return nil, fmt.Errorf("localstate: parse %s: %w", path, err)
		}
	}
	return s, nil
}

// Get returns the stored value, or "" when absent.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Set stores key=value and persists immediately.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Delete removes key and persists immediately. Deleting an absent key
// is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

// flushLocked writes the map atomically via a temp file rename.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("localstate: encode: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("localstate: ensure %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("localstate: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("localstate: replace %s: %w", s.path, err)
	}
	return nil
}
