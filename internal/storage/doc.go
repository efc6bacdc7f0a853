// Package storage is the server's persistence layer: the user
// directory, the key-exchange ledger and the message log on Postgres
// via GORM. When no external database is configured it boots an
// embedded Postgres so the server runs with zero setup.
//
// The two protocol invariants that must hold under concurrency, at most
// one pending exchange per ordered pair and no reused replay counter,
// are enforced by partial unique indexes rather than application-level
// checks.
package storage
