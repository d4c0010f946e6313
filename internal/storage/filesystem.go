// Package storage provides the filesystem implementation of the Storage interface.
// This implementation stores documents as files on disk, using a nested directory
// structure to avoid performance issues with too many files in a single directory.
//
// Directory structure:
//
//	data/
//	  61/
//	    42/
//	      6142336445.json    <- document "aB3dE", hex-encoded
//
// Base62 IDs can differ only by letter case, so file names are the hex
// encoding of the ID to stay distinct on case-insensitive filesystems.
package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
	"github.com/liskl/lixshare/internal/util"
)

// Filesystem implements the Storage interface using the local filesystem.
type Filesystem struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFilesystem creates a new filesystem storage backend.
func NewFilesystem(cfg *config.Config) (*Filesystem, error) {
	baseDir := cfg.Model.Dir
	if baseDir == "" {
		baseDir = "data"
	}

	// Create base directory if it doesn't exist
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Filesystem{
		baseDir: baseDir,
	}, nil
}

// documentPath returns the file path for a document.
// Uses nested directories: data/61/42/6142336445.json
func (f *Filesystem) documentPath(id string) (string, error) {
	if !util.ValidateID(id) {
		return "", model.ErrInvalidDocumentID
	}
	name := hex.EncodeToString([]byte(id))
	if len(name) < 4 {
		return filepath.Join(f.baseDir, name+".json"), nil
	}
	return filepath.Join(f.baseDir, name[:2], name[2:4], name+".json"), nil
}

// InsertDocument stores a new document on the filesystem.
// The final name is created with a hard link, which fails if it exists,
// so two writers racing on one ID can't both win.
func (f *Filesystem) InsertDocument(ctx context.Context, doc *model.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.documentPath(doc.ID)
	if err != nil {
		return err
	}

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing document file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing document file: %w", err)
	}

	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return model.ErrDocumentExists
		}
		return fmt.Errorf("linking document file: %w", err)
	}

	return nil
}

// FindDocument retrieves a document from the filesystem.
func (f *Filesystem) FindDocument(ctx context.Context, id string) (*model.Document, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	path, err := f.documentPath(id)
	if err != nil {
		return nil, model.ErrDocumentNotFound
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, model.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading document file: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("deserializing document: %w", err)
	}
	doc.ID = id

	return &doc, nil
}

// DocumentExists checks if a document exists on the filesystem.
func (f *Filesystem) DocumentExists(ctx context.Context, id string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	path, err := f.documentPath(id)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking document file: %w", err)
	}
	return true, nil
}

// DeleteDocuments removes the document file. A path holds at most one
// document, so the count is 0 or 1.
func (f *Filesystem) DeleteDocuments(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.documentPath(id)
	if err != nil {
		return 0, nil
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("deleting document file: %w", err)
	}

	return 1, nil
}

// Ping checks that the base directory is still there.
func (f *Filesystem) Ping(ctx context.Context) error {
	info, err := os.Stat(f.baseDir)
	if err != nil {
		return fmt.Errorf("checking data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", f.baseDir)
	}
	return nil
}

// Close is a no-op for filesystem storage.
func (f *Filesystem) Close() error {
	return nil
}
