// Package store reads grid records from SQLite.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, pure Go, the
// default) and "sqlite3" (github.com/mattn/go-sqlite3, requires cgo).
// QueryProvider adapts a table to grid.DataProvider, applying pagination
// with LIMIT/OFFSET. Table and column names come from configuration and are
// validated as plain identifiers before they are quoted into SQL.
package store
