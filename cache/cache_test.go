package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/test/mock"
)

type payload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(store cache.Store) *cache.Cache {
	return cache.New(store, "mbc", cache.DefaultTTLs())
}

func TestGetOrSetMissComputesAndStores(t *testing.T) {
	store := mock.NewStore()
	c := newTestCache(store)

	computed := 0
	var out payload
	hit, err := c.GetOrSet(context.Background(), "students:1", cache.TTLShort, &out,
		func(ctx context.Context) (interface{}, error) {
			computed++
			return payload{ID: "1", Name: "Asha"}, nil
		})

	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, computed)
	assert.Equal(t, "Asha", out.Name)
	assert.Equal(t, 1, store.SetCalls)
}

func TestGetOrSetHitSkipsCompute(t *testing.T) {
	store := mock.NewStore()
	c := newTestCache(store)
	ctx := context.Background()

	compute := func(ctx context.Context) (interface{}, error) {
		return payload{ID: "1", Name: "Asha"}, nil
	}

	var first payload
	_, err := c.GetOrSet(ctx, "students:1", cache.TTLShort, &first, compute)
	require.NoError(t, err)

	var second payload
	hit, err := c.GetOrSet(ctx, "students:1", cache.TTLShort, &second,
		func(ctx context.Context) (interface{}, error) {
			t.Fatal("compute must not run on a hit")
			return nil, nil
		})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
}

func TestGetOrSetDegradesWhenStoreFails(t *testing.T) {
	store := mock.NewStore()
	store.FailAll = true
	c := newTestCache(store)

	var out payload
	hit, err := c.GetOrSet(context.Background(), "students:1", cache.TTLShort, &out,
		func(ctx context.Context) (interface{}, error) {
			return payload{ID: "1", Name: "Asha"}, nil
		})

	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Asha", out.Name)
}

func TestGetOrSetComputeErrorPropagates(t *testing.T) {
	store := mock.NewStore()
	c := newTestCache(store)

	wantErr := errors.New("db down")
	var out payload
	_, err := c.GetOrSet(context.Background(), "students:1", cache.TTLShort, &out,
		func(ctx context.Context) (interface{}, error) {
			return nil, wantErr
		})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, store.SetCalls)
}

func TestGetOrSetDropsCorruptEntry(t *testing.T) {
	store := mock.NewStore()
	c := newTestCache(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "mbc:students:1", []byte("{not json"), time.Minute))

	var out payload
	hit, err := c.GetOrSet(ctx, "students:1", cache.TTLShort, &out,
		func(ctx context.Context) (interface{}, error) {
			return payload{ID: "1", Name: "Asha"}, nil
		})

	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Asha", out.Name)
}

func TestInvalidatePattern(t *testing.T) {
	store := mock.NewStore()
	c := newTestCache(store)
	ctx := context.Background()

	c.SetRaw(ctx, "students:list:a", []byte(`{}`), cache.TTLShort)
	c.SetRaw(ctx, "students:list:b", []byte(`{}`), cache.TTLShort)
	c.SetRaw(ctx, "courses:list:a", []byte(`{}`), cache.TTLLong)

	deleted, err := c.InvalidatePattern(ctx, "students:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, store.Len())

	// Re-invalidating an empty pattern is a no-op.
	deleted, err = c.InvalidatePattern(ctx, "students:*")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestGetRawMissAndFailureReturnNil(t *testing.T) {
	store := mock.NewStore()
	c := newTestCache(store)
	ctx := context.Background()

	assert.Nil(t, c.GetRaw(ctx, "absent"))

	store.FailAll = true
	assert.Nil(t, c.GetRaw(ctx, "absent"))
}

func TestTTLClassDurations(t *testing.T) {
	ttls := cache.TTLs{}
	assert.Equal(t, 60*time.Second, ttls.For(cache.TTLShort))
	assert.Equal(t, 5*time.Minute, ttls.For(cache.TTLMedium))
	assert.Equal(t, 30*time.Minute, ttls.For(cache.TTLLong))
	assert.Equal(t, 24*time.Hour, ttls.For(cache.TTLSession))

	custom := cache.TTLs{Short: 10 * time.Second}
	assert.Equal(t, 10*time.Second, custom.For(cache.TTLShort))
	assert.Equal(t, 5*time.Minute, custom.For(cache.TTLMedium))
}
