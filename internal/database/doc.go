// Package database provides PostgreSQL connection pool management.
//
// The pool backs the postgres storage backend, where the watchlist slot
// lives in a single key/value table.
package database
