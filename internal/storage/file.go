package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSlots stores one file per key under dir.
type FileSlots struct {
	dir string
	mu  sync.RWMutex
}

// NewFileSlots creates dir if needed.
func NewFileSlots(dir string) (*FileSlots, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file slots: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file slots: mkdir %s: %w", dir, err)
	}
	return &FileSlots{dir: dir}, nil
}

// sanitizeKey replaces path separators and collapses ".." so a key can never escape dir.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (s *FileSlots) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

func (s *FileSlots) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("file slots: read %s: %w", key, err)
	}
	return data, nil
}

// Set writes through a temp file and rename so readers never see a torn value.
func (s *FileSlots) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("file slots: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file slots: rename %s: %w", key, err)
	}
	return nil
}

func (s *FileSlots) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file slots: delete %s: %w", key, err)
	}
	return nil
}

func (s *FileSlots) Close() error { return nil }
