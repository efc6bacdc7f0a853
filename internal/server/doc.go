// Package server is the directory/ledger HTTP surface: signup and
// login, the user directory, the key-exchange API, verbatim envelope
// storage with history, file uploads, and best-effort live delivery
// over websockets.
//
// The server never holds key material beyond the public records users
// publish, and never inspects ciphertext. Authenticated routes carry an
// HS256 bearer token.
package server
