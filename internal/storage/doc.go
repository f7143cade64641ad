// Package storage provides the persisted key/value slots behind the watchlist store.
//
// A slot is a single named entry holding an opaque byte value. Backends:
//   - memory: process-local, for tests and throwaway sessions
//   - file: one JSON file per key under a directory, replaced atomically
//   - postgres: one row per key in the kv_slots table
//
// Every backend writes the whole value: a Put either fully replaces the slot or
// leaves the previous value in place.
package storage
