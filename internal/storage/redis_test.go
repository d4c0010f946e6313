package storage

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
)

func newTestRedis(t *testing.T) (*Redis, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := newRedisFromClient(client, "test:doc:")
	t.Cleanup(func() { store.Close() })
	return store, m
}

func TestNewRedis_Connects(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	store, err := NewRedis(context.Background(), &config.Config{Model: config.ModelConfig{Addr: m.Addr()}})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, DefaultRedisPrefix, store.prefix)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewRedis_Unreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), &config.Config{Model: config.ModelConfig{Addr: "127.0.0.1:1"}})
	assert.Error(t, err)
}

func TestRedis_InsertFindDelete(t *testing.T) {
	store, m := newTestRedis(t)
	ctx := context.Background()

	doc := &model.Document{
		ID:       "aB3dE5gH7j",
		Title:    strPtr("Notes"),
		Content:  "<h1>Hi</h1>",
		ExpireAt: time.Now().Add(time.Hour).Unix(),
	}
	require.NoError(t, store.InsertDocument(ctx, doc))
	assert.True(t, m.Exists("test:doc:aB3dE5gH7j"))

	got, err := store.FindDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	exists, err := store.DocumentExists(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := store.DeleteDocuments(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.FindDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, model.ErrDocumentNotFound)
}

func TestRedis_Insert_DuplicateID_ReturnsError(t *testing.T) {
	store, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.InsertDocument(ctx, &model.Document{ID: "dup", Content: "first"}))
	err := store.InsertDocument(ctx, &model.Document{ID: "dup", Content: "second"})
	assert.ErrorIs(t, err, model.ErrDocumentExists)

	got, err := store.FindDocument(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)
}

func TestRedis_KeysHaveNoTTL(t *testing.T) {
	store, m := newTestRedis(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour).Unix()
	require.NoError(t, store.InsertDocument(ctx, &model.Document{ID: "old", Content: "x", ExpireAt: past}))

	assert.Equal(t, time.Duration(0), m.TTL("test:doc:old"))
	m.FastForward(48 * time.Hour)

	got, err := store.FindDocument(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, past, got.ExpireAt)
}

func TestRedis_DocumentExists_Missing(t *testing.T) {
	store, _ := newTestRedis(t)

	exists, err := store.DocumentExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := store.DeleteDocuments(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRedis_CorruptValue(t *testing.T) {
	store, m := newTestRedis(t)
	require.NoError(t, m.Set("test:doc:bad", "not json"))

	_, err := store.FindDocument(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrDocumentNotFound)
}
