package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewWithClient(client), mr
}

func TestGetOrComputeMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`"value"`), nil
	}

	got, err := c.GetOrCompute(ctx, "k", time.Minute, nil, compute)
	require.NoError(t, err)
	assert.Equal(t, `"value"`, string(got))
	assert.Equal(t, 1, calls)

	got, err = c.GetOrCompute(ctx, "k", time.Minute, nil, compute)
	require.NoError(t, err)
	assert.Equal(t, `"value"`, string(got))
	assert.Equal(t, 1, calls, "second read must be served from cache")
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	boom := fmt.Errorf("store unavailable")
	_, err := c.GetOrCompute(ctx, "k", time.Minute, nil, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := c.GetOrCompute(ctx, "k", time.Minute, nil, func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(got))
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}

	_, err := c.GetOrCompute(ctx, "k", 30*time.Minute, nil, compute)
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = c.GetOrCompute(ctx, "k", 30*time.Minute, nil, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "entry must be recomputed after TTL expiry")
}

func TestFlushTagRemovesEveryTaggedEntry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	fill := func(key, value string, tags []string) {
		_, err := c.GetOrCompute(ctx, key, time.Hour, tags, func(context.Context) ([]byte, error) {
			return []byte(value), nil
		})
		require.NoError(t, err)
	}

	fill("article_abc", "a1", []string{TagArticleList})
	fill("user_feed_1_x", "f1", []string{TagArticleList})
	fill("user_preference_1", "p1", nil)

	require.NoError(t, c.FlushTag(ctx, TagArticleList))

	assert.False(t, mr.Exists("article_abc"))
	assert.False(t, mr.Exists("user_feed_1_x"))
	assert.False(t, mr.Exists("tag:"+TagArticleList))
	assert.True(t, mr.Exists("user_preference_1"), "untagged entries must survive a tag flush")
}

func TestFlushTagOnEmptyTagIsHarmless(t *testing.T) {
	c, _ := newTestCache(t)

	require.NoError(t, c.FlushTag(context.Background(), TagArticleList))
}

func TestForgetDeletesOnlyGivenKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	fill := func(key string) {
		_, err := c.GetOrCompute(ctx, key, time.Hour, nil, func(context.Context) ([]byte, error) {
			return []byte("v"), nil
		})
		require.NoError(t, err)
	}

	fill(PreferenceKey(1))
	fill(FeedKey(1, 1, 10))
	fill(PreferenceKey(2))
	fill(FeedKey(2, 1, 10))

	require.NoError(t, c.Forget(ctx, PreferenceKey(1), FeedKey(1, 1, 10)))

	assert.False(t, mr.Exists(PreferenceKey(1)))
	assert.False(t, mr.Exists(FeedKey(1, 1, 10)))
	assert.True(t, mr.Exists(PreferenceKey(2)), "another user's preference entry must be unaffected")
	assert.True(t, mr.Exists(FeedKey(2, 1, 10)), "another user's feed entry must be unaffected")
}

func TestFeedKeyDerivation(t *testing.T) {
	// Identical parameters share an entry.
	assert.Equal(t, FeedKey(1, 1, 10), FeedKey(1, 1, 10))

	// Any differing parameter yields a distinct key.
	assert.NotEqual(t, FeedKey(1, 1, 10), FeedKey(2, 1, 10))
	assert.NotEqual(t, FeedKey(1, 1, 10), FeedKey(1, 2, 10))
	assert.NotEqual(t, FeedKey(1, 1, 10), FeedKey(1, 1, 25))
}
