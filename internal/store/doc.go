// Package store provides file-based persistence for the client's core
// data.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. All methods are concurrency-safe via
// internal locking. Stored files live under the user's configured home
// directory.
//
// The package includes stores for:
//   - Identity keys, encrypted at rest (IdentityFileStore)
//   - Session records (SessionFileStore)
//   - Replay counters (CounterFileStore)
//   - Cached login credentials (CredentialFileStore)
package store
