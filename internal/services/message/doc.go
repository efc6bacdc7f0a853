// Package message sends and receives encrypted messages.
//
// It allocates replay counters, seals plaintexts into signed envelopes,
// and decrypts fetched history by re-deriving session keys from each
// envelope's salt.
package message
