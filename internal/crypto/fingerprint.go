package crypto

import (
	"crypto/ecdh"
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a public agreement key.
//
// It hashes the uncompressed point with SHA-256 and truncates to 10 bytes
// (20 hex chars), enough for humans to compare out of band.
func Fingerprint(pub *ecdh.PublicKey) string {
	sum := sha256.Sum256(pub.Bytes())
	return hex.EncodeToString(sum[:10])
}
