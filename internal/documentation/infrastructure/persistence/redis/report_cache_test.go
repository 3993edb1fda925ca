package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *mapStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mapStore) SetJSON(_ context.Context, key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.ttl[key] = expiration
	return nil
}

func (m *mapStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestReportCacheRoundTrip(t *testing.T) {
	store := newMapStore()
	cache := NewReportCache(store, 0)
	ctx := context.Background()

	var out map[string]int
	hit, err := cache.Get(ctx, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, map[string]int{"total": 3}))
	assert.Equal(t, time.Minute, store.ttl[reportKey])

	hit, err = cache.Get(ctx, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, out["total"])

	require.NoError(t, cache.Invalidate(ctx))
	hit, err = cache.Get(ctx, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
