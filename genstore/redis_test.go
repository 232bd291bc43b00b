package genstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// unreachable returns a client whose every command fails fast.
func unreachable(t *testing.T) redis.UniversalClient {
	t.Helper()
	c := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisKeysAreNamespaced(t *testing.T) {
	s := NewRedisGenStore(unreachable(t), "users")
	require.Equal(t, "gen:users:value:users:k", s.key("value:users:k"))
}

func TestRedisSnapshotManyEmptySkipsNetwork(t *testing.T) {
	s := NewRedisGenStore(unreachable(t), "users")
	got, err := s.SnapshotMany(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRedisErrorsSurface(t *testing.T) {
	ctx := context.Background()
	s := NewRedisGenStoreWithTTL(unreachable(t), "users", time.Minute)

	_, err := s.Snapshot(ctx, "k")
	require.Error(t, err)
	_, err = s.Bump(ctx, "k")
	require.Error(t, err)
	_, err = s.SnapshotMany(ctx, []string{"a", "b"})
	require.Error(t, err)
}
