package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/smart-garage/internal/config"
)

// exerciseStore runs the behavior every KeyValueStore must share.
func exerciseStore(t *testing.T, s KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.SetItem(ctx, "garage", `{"Car":{}}`))
	got, err := s.GetItem(ctx, "garage")
	require.NoError(t, err)
	assert.Equal(t, `{"Car":{}}`, got)

	require.NoError(t, s.SetItem(ctx, "garage", `{"Truck":{}}`))
	got, err = s.GetItem(ctx, "garage")
	require.NoError(t, err)
	assert.Equal(t, `{"Truck":{}}`, got)

	require.NoError(t, s.SetItem(ctx, "other", "x"))
	require.NoError(t, s.RemoveItem(ctx, "garage"))
	_, err = s.GetItem(ctx, "garage")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	got, err = s.GetItem(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	// removing twice is fine
	assert.NoError(t, s.RemoveItem(ctx, "garage"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(0))
}

func TestMemoryStore_Quota(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(16)

	require.NoError(t, s.SetItem(ctx, "k", "1234567890"))
	err := s.SetItem(ctx, "k2", "1234567890")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// replacing an existing key only counts the new value
	require.NoError(t, s.SetItem(ctx, "k", "123456789012345"))
	_, err = s.GetItem(ctx, "k2")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "garage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "garage.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "garage", "snapshot"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetItem(ctx, "garage")
	require.NoError(t, err)
	assert.Equal(t, "snapshot", got)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	s := NewRedisStore(client, "garage:")
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)

	require.NoError(t, s.SetItem(context.Background(), "snap", "v"))
	raw, err := mr.Get("garage:snap")
	require.NoError(t, err)
	assert.Equal(t, "v", raw)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

// Integration test (requires running PostgreSQL)
func TestPostgresStore_Integration(t *testing.T) {
	dsn := getenvForTest("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set, skipping integration test")
	}
	s, err := NewPostgresStore(context.Background(), dsn)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr string
	}{
		{"memory", config.StorageConfig{Backend: "memory"}, ""},
		{"sqlite", config.StorageConfig{Backend: "sqlite", SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "g.db")}}, ""},
		{"unknown", config.StorageConfig{Backend: "floppy"}, "unknown storage backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			defer s.Close()
			exerciseStore(t, s)
		})
	}
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := Open(context.Background(), config.StorageConfig{
		Backend: "redis",
		Redis:   config.RedisConfig{Addr: mr.Addr(), Prefix: "t:"},
	})
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}
