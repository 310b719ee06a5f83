// Package storage provides the key-value slots that stand in for browser local storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("slot not found")

// Slots is a flat key-value namespace. Values are opaque bytes.
type Slots interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Dir        string
	SQLitePath string
}

// Open builds the backend named in opts.
func Open(opts Options) (Slots, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMemory:
		return NewMemorySlots(), nil
	case BackendFile:
		return NewFileSlots(opts.Dir)
	case BackendSQLite:
		return NewSQLiteSlots(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// MemorySlots keeps values in a map. Contents vanish with the process.
type MemorySlots struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemorySlots returns an empty in-memory namespace.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{items: make(map[string][]byte)}
}

func (s *MemorySlots) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySlots) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.items[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *MemorySlots) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *MemorySlots) Close() error { return nil }
