// Package markers persists the per-day schedule slot flags.
package markers

import (
	"context"
	"fmt"
	"sync"
)

// Store is a small key/value store for schedule markers.
type Store interface {
	// Get returns ok=false when key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string // memory | sqlite | redis
	Path     string
	RedisURL string
}

// Open builds the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "sqlite":
		return OpenSQLite(opts.Path)
	case "memory":
		return NewMemory(), nil
	case "redis":
		return OpenRedis(ctx, opts.RedisURL)
	default:
		return nil, fmt.Errorf("unknown marker backend %q (valid: memory, sqlite, redis)", opts.Backend)
	}
}

// Memory keeps markers in process memory.
type Memory struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
