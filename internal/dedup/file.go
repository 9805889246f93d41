package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileBackend keeps the visited set in a JSON file replaced atomically.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

type fileSnapshot struct {
	Version int                  `json:"version"`
	Visited map[string]time.Time `json:"visited"`
}

func (f *FileBackend) LoadVisited(ctx context.Context) (map[string]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileBackend) SaveVisited(ctx context.Context, entries map[string]time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return err
	}
	for id, at := range entries {
		all[id] = at
	}
	b, err := json.MarshalIndent(fileSnapshot{Version: 1, Visited: all}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileBackend) read() (map[string]time.Time, error) {
	out := map[string]time.Time{}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	var snap fileSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	for id, at := range snap.Visited {
		out[id] = at
	}
	return out, nil
}
