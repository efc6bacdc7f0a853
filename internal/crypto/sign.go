package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
)

// Sign produces an ECDSA (P-256, SHA-256) signature over msg.
func Sign(priv *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	sum := sha256.Sum256(msg)
	return ecdsa.SignASN1(rand.Reader, priv, sum[:])
}

// Verify reports whether sig is a valid signature over msg by pub.
func Verify(pub *ecdsa.PublicKey, msg, sig []byte) bool {
	sum := sha256.Sum256(msg)
	return ecdsa.VerifyASN1(pub, sum[:], sig)
}
