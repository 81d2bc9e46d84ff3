// Package store provides SQLite-backed persistence for tables.
//
// A saved table is one row in relations (name, schema, key, snapshot id,
// tuple count) and one row per tuple in tuples, each tuple stored as a
// canonical JSON array. Saving a name again replaces the previous snapshot
// in a single transaction.
//
// # Round trip
//
// Load(Save(t)) equals t: same name, attributes, domains, key, tuples and
// tuple order. The key index is rebuilt from the tuples on load.
//
// # Errors
//
// Failures are reported wrapping one of the sentinels ErrNotFound,
// ErrCorruptFormat or ErrIO, so callers can test them with errors.Is.
// Nothing is retried.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Tuples are deleted with their relation
package store
