package cart

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// Store persists cart snapshots. Implementations must treat "nothing stored
// yet" as an empty cart, not an error.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemoryStore) Save(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]Entry, len(entries))
	copy(s.entries, entries)
	return nil
}

// FileStore persists the snapshot as JSON on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FileStore) Save(entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
