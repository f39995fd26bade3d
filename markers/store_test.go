package markers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "psych_update_2024/5/23_morning")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "psych_update_2024/5/23_morning", "true"))

	v, ok, err := s.Get(ctx, "psych_update_2024/5/23_morning")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)

	_, ok, err = s.Get(ctx, "psych_update_2024/5/23_evening")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "psych_update_2024/5/23_morning", "again"))
	v, _, err = s.Get(ctx, "psych_update_2024/5/23_morning")
	require.NoError(t, err)
	require.Equal(t, "again", v)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "markers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "markers.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "true"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Path: filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: "etcd"})
	require.Error(t, err)

	_, err = Open(ctx, Options{Backend: "sqlite"})
	require.Error(t, err)

	_, err = Open(ctx, Options{Backend: "redis"})
	require.Error(t, err)
}

func TestOpenRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := OpenRedis(ctx, "redis://127.0.0.1:1/0")
	require.Error(t, err)
}
