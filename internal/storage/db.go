// Package storage provides the database layer for Materna.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
)

// AppName is the application name used for data directories.
const AppName = "materna"

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory. Empty means in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the database location following the XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates the database. Badger's own logging is silenced
// below the error level so daemon logs stay readable.
func Open(opts Options) (*DB, error) {
	if opts.InMemory || opts.Path == "" {
		return open(badger.DefaultOptions("").WithInMemory(true), "")
	}

	if err := os.MkdirAll(opts.Path, 0755); err != nil {
		return nil, err
	}
	return open(badger.DefaultOptions(opts.Path), opts.Path)
}

func open(badgerOpts badger.Options, path string) (*DB, error) {
	db, err := badger.Open(badgerOpts.WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, err
	}
	return &DB{db: db, path: path}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database directory, empty for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

// Badger exposes the underlying database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}
