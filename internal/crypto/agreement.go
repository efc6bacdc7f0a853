package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// SharedBits is the size of a raw P-256 ECDH shared secret.
	SharedBits = 32

	// SessionKeyBytes is the size of a derived AEAD session key.
	SessionKeyBytes = 32

	// SaltBytes is the size of the HKDF salt transmitted alongside the
	// first message of a session.
	SaltBytes = 16
)

// DeriveSharedBits computes the raw P-256 ECDH shared secret between a
// local private agreement key and a remote public agreement key. Both
// directions of the exchange yield identical bits.
func DeriveSharedBits(local *ecdh.PrivateKey, remote *ecdh.PublicKey) ([]byte, error) {
	secret, err := local.ECDH(remote)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}
	return secret, nil
}

// DeriveSessionKey expands a raw shared secret into a 256-bit AEAD key
// using HKDF-SHA256 with the given salt and context string. For the same
// (secret, salt, info) both peers derive bit-identical keys.
func DeriveSessionKey(sharedBits, salt []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, sharedBits, salt, []byte(info))
	key := make([]byte, SessionKeyBytes)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return key, nil
}

// NewSalt returns a fresh random HKDF salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}
