// Package storage provides the persistence layer for lixshare.
// It defines the Storage interface that abstracts different backends
// (SQL database, filesystem, MongoDB, Redis, MinIO) allowing the application
// to switch between them without changing business logic.
//
// The storage layer is a plain keyed collection of documents. Expiry policy
// lives in the gateway; backends never hide or delete expired documents on
// their own.
//
// All implementations must be safe for concurrent use.
package storage

import (
	"context"
	"fmt"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
)

// Storage defines the contract for document persistence.
type Storage interface {
	// FindDocument retrieves a document by ID.
	// Returns model.ErrDocumentNotFound if no record has this ID.
	FindDocument(ctx context.Context, id string) (*model.Document, error)

	// DocumentExists checks if any record has the given ID.
	// This is a quick check that doesn't load the content.
	DocumentExists(ctx context.Context, id string) (bool, error)

	// InsertDocument stores a new document.
	// Backends that can insert conditionally return model.ErrDocumentExists
	// when the ID is already taken.
	InsertDocument(ctx context.Context, doc *model.Document) error

	// DeleteDocuments removes every record with the given ID and
	// returns how many were removed.
	DeleteDocuments(ctx context.Context, id string) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the storage backend.
	// Should be called when the application shuts down.
	Close() error
}

// Storage classes accepted in [model] class.
const (
	ClassDatabase   = "Database"
	ClassFilesystem = "Filesystem"
	ClassMongo      = "Mongo"
	ClassRedis      = "Redis"
	ClassMinIO      = "MinIO"
)

// New creates a new storage backend based on configuration.
// The returned Storage should be closed when no longer needed.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Model.Class {
	case ClassDatabase:
		return NewDatabase(cfg)
	case ClassFilesystem:
		return NewFilesystem(cfg)
	case ClassMongo:
		return NewMongo(ctx, cfg)
	case ClassRedis:
		return NewRedis(ctx, cfg)
	case ClassMinIO:
		return NewMinIO(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage class: %s", cfg.Model.Class)
	}
}
