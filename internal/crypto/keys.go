package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
)

// GenerateSigningKeypair returns a fresh P-256 ECDSA key pair.
// Keys from this generator are only ever used to sign and verify.
func GenerateSigningKeypair() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// GenerateAgreementKeypair returns a fresh P-256 ECDH key pair.
// Keys from this generator are only ever used for key agreement;
// they share a curve with signing keys but never a purpose.
func GenerateAgreementKeypair() (*ecdh.PrivateKey, error) {
	return ecdh.P256().GenerateKey(rand.Reader)
}
