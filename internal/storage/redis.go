package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
)

// DefaultRedisPrefix namespaces document keys.
const DefaultRedisPrefix = "lixshare:doc:"

// Redis implements Storage on top of a Redis server.
// Documents are stored as JSON under key: "<prefix><id>" with no TTL, so
// expiry follows the same lazy read path as every other backend.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg *config.Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Model.Addr,
		Password: cfg.Model.Password,
		DB:       cfg.Model.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return newRedisFromClient(client, cfg.Model.Prefix), nil
}

func newRedisFromClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(id string) string {
	return r.prefix + id
}

// InsertDocument writes the document with SETNX so an existing ID is never
// overwritten.
func (r *Redis) InsertDocument(ctx context.Context, doc *model.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(doc.ID), b, 0).Result()
	if err != nil {
		return fmt.Errorf("storing document: %w", err)
	}
	if !ok {
		return model.ErrDocumentExists
	}
	return nil
}

// FindDocument loads a document by ID.
func (r *Redis) FindDocument(ctx context.Context, id string) (*model.Document, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("loading document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("deserializing document: %w", err)
	}
	doc.ID = id
	return &doc, nil
}

// DocumentExists checks the key with EXISTS.
func (r *Redis) DocumentExists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return n > 0, nil
}

// DeleteDocuments removes the key.
func (r *Redis) DeleteDocuments(ctx context.Context, id string) (int64, error) {
	n, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("deleting document: %w", err)
	}
	return n, nil
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
