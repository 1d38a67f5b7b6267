package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/backend/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// failScripts makes the next n script invocations fail before reaching redis
type failScripts struct {
	n int
}

func (h *failScripts) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *failScripts) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if h.n > 0 && (cmd.Name() == "evalsha" || cmd.Name() == "eval") {
			h.n--
			err := errors.New("transient")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (h *failScripts) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisColorCache_ColorFor(t *testing.T) {
	ctx := context.Background()

	t.Run("first writer wins across instances", func(t *testing.T) {
		_, client := newTestRedis(t)
		first := NewRedisColorCache(client, "test:colors", fixedColor(10, 20, 30))
		second := NewRedisColorCache(client, "test:colors", fixedColor(90, 90, 90))

		c1, err := first.ColorFor(ctx, "Aisle 1")
		require.NoError(t, err)
		c2, err := second.ColorFor(ctx, "Aisle 1")
		require.NoError(t, err)

		assert.Equal(t, c1, c2)
		assert.Equal(t, "#0a141e", c2.Hex())
	})

	t.Run("records first-seen order", func(t *testing.T) {
		_, client := newTestRedis(t)
		cache := NewRedisColorCache(client, "", fixedColor(1, 2, 3))

		for _, aisle := range []string{"C", "A", "C", "B"} {
			_, err := cache.ColorFor(ctx, aisle)
			require.NoError(t, err)
		}

		colors, err := cache.All(ctx)
		require.NoError(t, err)
		require.Len(t, colors, 3)
		assert.Equal(t, "C", colors[0].Aisle)
		assert.Equal(t, "A", colors[1].Aisle)
		assert.Equal(t, "B", colors[2].Aisle)
	})

	t.Run("failed assignment leaves no partial state", func(t *testing.T) {
		mr, client := newTestRedis(t)
		client.AddHook(&failScripts{n: 1})
		cache := NewRedisColorCache(client, "test:colors", fixedColor(10, 20, 30))

		_, err := cache.ColorFor(ctx, "Aisle 4")
		require.ErrorIs(t, err, domain.ErrCacheUnavailable)
		assert.False(t, mr.Exists("test:colors"))
		assert.False(t, mr.Exists("test:colors:order"))

		color, err := cache.ColorFor(ctx, "Aisle 4")
		require.NoError(t, err)
		assert.Equal(t, "#0a141e", color.Hex())

		colors, err := cache.All(ctx)
		require.NoError(t, err)
		require.Len(t, colors, 1)
		assert.Equal(t, "Aisle 4", colors[0].Aisle)
	})

	t.Run("hash and order list stay in step", func(t *testing.T) {
		mr, client := newTestRedis(t)
		first := NewRedisColorCache(client, "test:colors", fixedColor(1, 2, 3))
		second := NewRedisColorCache(client, "test:colors", fixedColor(4, 5, 6))

		for _, aisle := range []string{"Aisle 1", "Aisle 2", "Aisle 1"} {
			_, err := first.ColorFor(ctx, aisle)
			require.NoError(t, err)
			_, err = second.ColorFor(ctx, aisle)
			require.NoError(t, err)
		}

		keys, err := mr.HKeys("test:colors")
		require.NoError(t, err)
		order, err := mr.List("test:colors:order")
		require.NoError(t, err)
		assert.ElementsMatch(t, keys, order)
		assert.Equal(t, []string{"Aisle 1", "Aisle 2"}, order)
	})

	t.Run("reports unavailable cache when redis is down", func(t *testing.T) {
		mr, client := newTestRedis(t)
		cache := NewRedisColorCache(client, "", nil)
		mr.Close()

		_, err := cache.ColorFor(ctx, "Aisle 9")
		assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

		_, err = cache.All(ctx)
		assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	})
}

func TestRedisColorCache_AllEmpty(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewRedisColorCache(client, "", nil)

	colors, err := cache.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, colors)
}

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	t.Run("connects with a valid url", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := NewRedisClient(ctx, "redis://"+mr.Addr())
		require.NoError(t, err)
		defer client.Close()
	})

	t.Run("rejects a malformed url", func(t *testing.T) {
		_, err := NewRedisClient(ctx, "not-a-url")
		assert.Error(t, err)
	})
}
