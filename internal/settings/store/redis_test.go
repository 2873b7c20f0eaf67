package store

import (
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"voxlab/internal/platform/redis"
	"voxlab/internal/settings"
)

// TestNewCachedTakesPlatformClient pins the constructor to the platform
// wrapper the server wires in, not the raw go-redis client, and checks the
// result satisfies the settings store contract.
func TestNewCachedTakesPlatformClient(t *testing.T) {
	cache := &redis.Client{Client: goredis.NewClient(&goredis.Options{Addr: "localhost:0"})}
	t.Cleanup(func() { _ = cache.Close() })

	cached := NewCached(NewPostgres(nil), cache)
	require.NotNil(t, cached)

	var _ settings.Store = cached
}
