// Package agreement derives per-pair session keys from completed
// handshakes: P-256 ECDH for the raw shared bits, then HKDF-SHA256 with a
// transmitted salt and a fixed context string for the AEAD key.
package agreement
