//go:build !cgo

package storage

// isSQLiteDuplicate always reports false: without cgo the sqlite3 driver
// can't open a database, so no SQLite error reaches InsertDocument.
func isSQLiteDuplicate(err error) bool {
	return false
}
