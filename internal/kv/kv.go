// Package kv provides the byte-level key-value stores the persistence
// gateway writes snapshots to. Two implementations exist: a directory of
// flat files and a single-table SQLite database, selected by config path.
package kv

import "errors"

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key-value byte store.
//
// Store implementations are not safe for concurrent use by multiple
// processes sharing the same path; a single process is the assumed owner.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
