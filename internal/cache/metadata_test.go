package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataSetAndGet(t *testing.T) {
	stores := setupStores(t)
	r := stores.Metadata
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", []byte{0x01, 0x02}))

	v, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestMetadataGet_AbsentKeyReturnsNilNil(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	v, err := stores.Metadata.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMetadataSet_UpsertOverwritesValue(t *testing.T) {
	stores := setupStores(t)
	r := stores.Metadata
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestMetadataList_ReturnsAllPairs(t *testing.T) {
	stores := setupStores(t)
	r := stores.Metadata
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, []byte{0xAA}, m["a"])
	assert.Equal(t, []byte{0xBB, 0xCC}, m["b"])
}

func TestMetadataDelete_RemovesKeyAndIsIdempotent(t *testing.T) {
	stores := setupStores(t)
	r := stores.Metadata
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{0x01}))
	require.NoError(t, r.Delete(ctx, "x"))

	v, err := r.Get(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "x"))
}

func TestMetadataClear_RemovesAllKeys(t *testing.T) {
	stores := setupStores(t)
	r := stores.Metadata
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestMetadataTimeRoundTrip(t *testing.T) {
	stores := setupStores(t)
	r := stores.Metadata
	ctx := context.Background()

	stamp := time.Date(2024, 5, 10, 7, 0, 0, 0, time.UTC)
	require.NoError(t, r.SetTime(ctx, KeyLastRefreshHabits, stamp))

	got, ok, err := r.GetTime(ctx, KeyLastRefreshHabits)
	require.NoError(t, err)
	require.True(t, ok)
	assert.WithinDuration(t, stamp, got, 0)
}

func TestMetadataGetTime_AbsentKey(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	_, ok, err := stores.Metadata.GetTime(ctx, "never-written")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMetadataGetTime_GarbageValueErrors(t *testing.T) {
	stores := setupStores(t)
	r := stores.Metadata
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "bad", []byte("not-a-number")))

	_, _, err := r.GetTime(ctx, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse metadata[bad]")
}

func TestMetadataGet_DBErrorWrapped(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Close())

	v, err := stores.Metadata.Get(ctx, "k")
	require.Error(t, err)
	require.Nil(t, v)
	require.Contains(t, err.Error(), "failed to get metadata[k]")
}

func TestMetadataSet_DBErrorWrapped(t *testing.T) {
	stores := setupStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Close())

	err := stores.Metadata.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set metadata[k]")
}
