// Package storage provides the database implementation of the Storage interface.
// This implementation supports SQLite, PostgreSQL, and MySQL through Go's
// database/sql package, providing a consistent API across all three databases.
//
// Schema:
// - document: one row per document, doc_id is the primary key
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	// SQLite driver - imported for side effects (driver registration)
	_ "github.com/mattn/go-sqlite3"

	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/model"
)

// Database implements the Storage interface using SQL databases.
// Supports SQLite, PostgreSQL, and MySQL.
type Database struct {
	db     *sql.DB
	driver string // "sqlite3", "postgres", or "mysql"
}

// NewDatabase creates a new database storage backend.
// The document table is created automatically if it doesn't exist.
func NewDatabase(cfg *config.Config) (*Database, error) {
	driver := cfg.Model.Driver
	dsn := cfg.Model.DSN

	// For PostgreSQL, the driver is "postgres" but DSN might use "postgresql://"
	if driver == "postgres" && strings.HasPrefix(dsn, "postgresql://") {
		dsn = strings.Replace(dsn, "postgresql://", "postgres://", 1)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	d := newDatabaseFromDB(db, driver)

	if err := d.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return d, nil
}

// newDatabaseFromDB wraps an open handle without touching the schema.
func newDatabaseFromDB(db *sql.DB, driver string) *Database {
	return &Database{db: db, driver: driver}
}

// createTables creates the document table.
func (d *Database) createTables() error {
	textType := d.textType()

	documentSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS document (
			doc_id VARCHAR(32) PRIMARY KEY,
			title %s,
			content %s NOT NULL,
			expire_at BIGINT NOT NULL DEFAULT 0
		)
	`, textType, textType)

	if _, err := d.db.Exec(documentSQL); err != nil {
		return fmt.Errorf("creating document table: %w", err)
	}

	return nil
}

// textType returns the appropriate TEXT type for the database driver.
func (d *Database) textType() string {
	switch d.driver {
	case "mysql":
		return "MEDIUMTEXT" // Up to 16MB
	default:
		return "TEXT"
	}
}

// placeholder returns the appropriate placeholder for the database.
// PostgreSQL uses $1, $2, etc. Others use ?.
func (d *Database) placeholder(n int) string {
	if d.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns a string of comma-separated placeholders.
func (d *Database) placeholders(count int) string {
	if d.driver == "postgres" {
		parts := make([]string, count)
		for i := 0; i < count; i++ {
			parts[i] = fmt.Sprintf("$%d", i+1)
		}
		return strings.Join(parts, ", ")
	}
	return strings.Repeat("?, ", count-1) + "?"
}

// isDuplicateKey reports whether err is a primary key violation.
func (d *Database) isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}
	return isSQLiteDuplicate(err)
}

// InsertDocument stores a new document in the database.
func (d *Database) InsertDocument(ctx context.Context, doc *model.Document) error {
	query := fmt.Sprintf(
		"INSERT INTO document (doc_id, title, content, expire_at) VALUES (%s)",
		d.placeholders(4),
	)

	var title sql.NullString
	if doc.Title != nil {
		title = sql.NullString{String: *doc.Title, Valid: true}
	}

	_, err := d.db.ExecContext(ctx, query, doc.ID, title, doc.Content, doc.ExpireAt)
	if err != nil {
		if d.isDuplicateKey(err) {
			return model.ErrDocumentExists
		}
		return fmt.Errorf("inserting document: %w", err)
	}

	return nil
}

// FindDocument retrieves a document from the database.
func (d *Database) FindDocument(ctx context.Context, id string) (*model.Document, error) {
	query := fmt.Sprintf(
		"SELECT title, content, expire_at FROM document WHERE doc_id = %s",
		d.placeholder(1),
	)

	var title sql.NullString
	var content string
	var expireAt int64

	err := d.db.QueryRowContext(ctx, query, id).Scan(&title, &content, &expireAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	doc := &model.Document{
		ID:       id,
		Content:  content,
		ExpireAt: expireAt,
	}
	if title.Valid {
		t := title.String
		doc.Title = &t
	}
	return doc, nil
}

// DocumentExists checks if a document exists in the database.
func (d *Database) DocumentExists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM document WHERE doc_id = %s", d.placeholder(1))
	var exists int
	err := d.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return true, nil
}

// DeleteDocuments removes every row with the given ID.
func (d *Database) DeleteDocuments(ctx context.Context, id string) (int64, error) {
	query := fmt.Sprintf("DELETE FROM document WHERE doc_id = %s", d.placeholder(1))
	result, err := d.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("deleting document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Ping checks the database connection.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}
