// Package storage provides a mock implementation of the Storage interface.
// This mock is used for testing the gateway, handlers and other components
// that depend on storage without needing a real database or filesystem.
package storage

import (
	"context"
	"sync"

	"github.com/liskl/lixshare/internal/model"
)

// Mock implements the Storage interface for testing.
// It stores data in memory and can be configured to return errors.
// Unlike the real backends it can hold several records under one ID,
// which models legacy collections that lack a unique constraint.
type Mock struct {
	mu   sync.RWMutex
	docs map[string][]*model.Document

	// ForceExists makes every existence check report a collision
	ForceExists bool

	existsCalls int
	insertCalls int

	// Error injection for testing error handling
	FindErr   error
	ExistsErr error
	InsertErr error
	DeleteErr error
	PingErr   error
}

// NewMock creates a new mock storage instance.
func NewMock() *Mock {
	return &Mock{
		docs: make(map[string][]*model.Document),
	}
}

// Seed stores a record without any uniqueness check.
func (m *Mock) Seed(doc *model.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Make a copy to prevent external modifications
	stored := *doc
	m.docs[doc.ID] = append(m.docs[doc.ID], &stored)
}

// InsertDocument stores a document in memory.
func (m *Mock) InsertDocument(ctx context.Context, doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if len(m.docs[doc.ID]) > 0 {
		return model.ErrDocumentExists
	}

	stored := *doc
	m.docs[doc.ID] = []*model.Document{&stored}
	return nil
}

// FindDocument returns the first record stored under id.
func (m *Mock) FindDocument(ctx context.Context, id string) (*model.Document, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.docs[id]
	if len(docs) == 0 {
		return nil, model.ErrDocumentNotFound
	}

	// Return a copy
	result := *docs[0]
	return &result, nil
}

// DocumentExists checks if a document exists in memory.
func (m *Mock) DocumentExists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.existsCalls++
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	if m.ForceExists {
		return true, nil
	}
	return len(m.docs[id]) > 0, nil
}

// DeleteDocuments removes every record stored under id.
func (m *Mock) DeleteDocuments(ctx context.Context, id string) (int64, error) {
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.docs[id]))
	delete(m.docs, id)
	return n, nil
}

// Ping returns PingErr.
func (m *Mock) Ping(ctx context.Context) error {
	return m.PingErr
}

// Close is a no-op for mock storage.
func (m *Mock) Close() error {
	return nil
}

// Reset clears all data from the mock storage.
// Useful for test setup/teardown.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = make(map[string][]*model.Document)
	m.ForceExists = false
	m.existsCalls = 0
	m.insertCalls = 0
	m.FindErr = nil
	m.ExistsErr = nil
	m.InsertErr = nil
	m.DeleteErr = nil
	m.PingErr = nil
}

// ExistsCalls returns how many existence checks have been made.
func (m *Mock) ExistsCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.existsCalls
}

// InsertCalls returns how many inserts have been attempted.
func (m *Mock) InsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}

// GetDocumentCount returns the number of records stored, duplicates included.
// Useful for assertions in tests.
func (m *Mock) GetDocumentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, docs := range m.docs {
		n += len(docs)
	}
	return n
}
