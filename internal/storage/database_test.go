package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
)

func strPtr(s string) *string { return &s }

// skipIfNoCGO skips the test if SQLite is not available (requires CGO)
func skipIfNoCGO(t *testing.T) {
	cfg := &config.Config{
		Model: config.ModelConfig{
			Class:  ClassDatabase,
			Driver: "sqlite3",
			DSN:    ":memory:",
		},
	}
	db, err := NewDatabase(cfg)
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("Skipping test: SQLite requires CGO which is not available")
	}
	if db != nil {
		db.Close()
	}
}

// testDatabaseConfig creates a config for SQLite testing.
// Automatically skips the test if CGO is not available.
func testDatabaseConfig(t *testing.T) *config.Config {
	skipIfNoCGO(t)

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	return &config.Config{
		Model: config.ModelConfig{
			Class:  ClassDatabase,
			Driver: "sqlite3",
			DSN:    dbPath,
		},
	}
}

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(testDatabaseConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_CreatesTables(t *testing.T) {
	db := newTestDatabase(t)

	exists, err := db.DocumentExists(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.Config{Model: config.ModelConfig{Driver: "oracle", DSN: "x"}})
	assert.Error(t, err)
}

func TestDatabase_InsertAndFind(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	doc := &model.Document{
		ID:       "aB3dE5gH7j",
		Title:    strPtr("Notes"),
		Content:  "<h1>Hi</h1>",
		ExpireAt: time.Now().Add(time.Hour).Unix(),
	}
	require.NoError(t, db.InsertDocument(ctx, doc))

	got, err := db.FindDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	exists, err := db.DocumentExists(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDatabase_InsertWithoutTitle(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.InsertDocument(ctx, &model.Document{ID: "noTitle", Content: "x"}))

	got, err := db.FindDocument(ctx, "noTitle")
	require.NoError(t, err)
	assert.Nil(t, got.Title)
	assert.Equal(t, int64(0), got.ExpireAt)
}

func TestDatabase_Insert_DuplicateID_ReturnsError(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	doc := &model.Document{ID: "dup", Content: "first"}
	require.NoError(t, db.InsertDocument(ctx, doc))

	err := db.InsertDocument(ctx, &model.Document{ID: "dup", Content: "second"})
	assert.ErrorIs(t, err, model.ErrDocumentExists)

	got, err := db.FindDocument(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)
}

func TestDatabase_Find_NotFound(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.FindDocument(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, model.ErrDocumentNotFound)
}

func TestDatabase_Find_ReturnsExpiredDocumentsAsStored(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour).Unix()
	require.NoError(t, db.InsertDocument(ctx, &model.Document{ID: "old", Content: "x", ExpireAt: past}))

	got, err := db.FindDocument(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, past, got.ExpireAt)
}

func TestDatabase_DeleteDocuments(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.InsertDocument(ctx, &model.Document{ID: "gone", Content: "x"}))

	n, err := db.DeleteDocuments(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	exists, err := db.DocumentExists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, exists)

	n, err = db.DeleteDocuments(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDatabase_Ping(t *testing.T) {
	db := newTestDatabase(t)
	assert.NoError(t, db.Ping(context.Background()))
}

// The tests below drive the dialect-specific paths through sqlmock.

func newMockDatabase(t *testing.T, driver string) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return newDatabaseFromDB(conn, driver), mock
}

func TestDatabase_Postgres_UsesNumberedPlaceholders(t *testing.T) {
	db, mock := newMockDatabase(t, "postgres")

	mock.ExpectExec("INSERT INTO document (doc_id, title, content, expire_at) VALUES ($1, $2, $3, $4)").
		WithArgs("pgDoc", nil, "<p>x</p>", int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := db.InsertDocument(context.Background(), &model.Document{ID: "pgDoc", Content: "<p>x</p>"})
	assert.NoError(t, err)
}

func TestDatabase_Postgres_UniqueViolation(t *testing.T) {
	db, mock := newMockDatabase(t, "postgres")

	mock.ExpectExec("INSERT INTO document (doc_id, title, content, expire_at) VALUES ($1, $2, $3, $4)").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := db.InsertDocument(context.Background(), &model.Document{ID: "pgDoc", Content: "x"})
	assert.ErrorIs(t, err, model.ErrDocumentExists)
}

func TestDatabase_MySQL_DuplicateEntry(t *testing.T) {
	db, mock := newMockDatabase(t, "mysql")

	mock.ExpectExec("INSERT INTO document (doc_id, title, content, expire_at) VALUES (?, ?, ?, ?)").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'myDoc' for key 'PRIMARY'"})

	err := db.InsertDocument(context.Background(), &model.Document{ID: "myDoc", Content: "x"})
	assert.ErrorIs(t, err, model.ErrDocumentExists)
}

func TestDatabase_Insert_OtherErrorIsWrapped(t *testing.T) {
	db, mock := newMockDatabase(t, "mysql")
	boom := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO document (doc_id, title, content, expire_at) VALUES (?, ?, ?, ?)").
		WillReturnError(boom)

	err := db.InsertDocument(context.Background(), &model.Document{ID: "myDoc", Content: "x"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrDocumentExists)
}

func TestDatabase_DeleteDocuments_RemovesEveryCopy(t *testing.T) {
	db, mock := newMockDatabase(t, "postgres")

	// Legacy tables without a primary key can hold duplicates.
	mock.ExpectExec("DELETE FROM document WHERE doc_id = $1").
		WithArgs("twice").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := db.DeleteDocuments(context.Background(), "twice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDatabase_FindDocument_ScansNullTitle(t *testing.T) {
	db, mock := newMockDatabase(t, "postgres")

	rows := sqlmock.NewRows([]string{"title", "content", "expire_at"}).AddRow(nil, "<p>x</p>", int64(99))
	mock.ExpectQuery("SELECT title, content, expire_at FROM document WHERE doc_id = $1").
		WithArgs("pgDoc").
		WillReturnRows(rows)

	got, err := db.FindDocument(context.Background(), "pgDoc")
	require.NoError(t, err)
	assert.Nil(t, got.Title)
	assert.Equal(t, int64(99), got.ExpireAt)
}

func TestDatabase_DocumentExists_PropagatesErrors(t *testing.T) {
	db, mock := newMockDatabase(t, "mysql")

	mock.ExpectQuery("SELECT 1 FROM document WHERE doc_id = ?").
		WithArgs("x").
		WillReturnError(errors.New("timeout"))

	_, err := db.DocumentExists(context.Background(), "x")
	assert.Error(t, err)
}
