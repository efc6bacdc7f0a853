package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

// NonceBytes is the AES-GCM nonce size (96 bits).
const NonceBytes = 12

// ErrAuthentication is the single error returned for every failed Open:
// wrong key, tampered ciphertext, wrong nonce or mismatched associated
// data all look identical to the caller.
var ErrAuthentication = errors.New("message authentication failed")

// Seal encrypts plaintext with AES-256-GCM under key, binding aad as
// associated data. A fresh random nonce is generated per call and
// returned alongside the ciphertext; it must never be reused under the
// same key.
func Seal(key, plaintext, aad []byte) (nonce, ciphertext []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return nonce, aead.Seal(nil, nonce, plaintext, aad), nil
}

// Open decrypts an AES-256-GCM ciphertext. Any authentication failure is
// reported as ErrAuthentication without further detail.
func Open(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceBytes {
		return nil, ErrAuthentication
	}
	pt, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrAuthentication
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != SessionKeyBytes {
		return nil, errors.New("session key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
