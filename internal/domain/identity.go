package domain

import (
	"crypto/ecdh"
	"crypto/ecdsa"

	"sealedchat/internal/jwk"
)

// Fingerprint is a short human-comparable digest of a public key.
type Fingerprint string

// Identity holds your long-term key pairs as private key records.
// The private records never leave the local encrypted store; only the
// public projections are published to the directory.
type Identity struct {
	Signing   jwk.Record `json:"signing"`   // signing-private
	Agreement jwk.Record `json:"agreement"` // agreement-private
}

// SigningKey reconstructs the ECDSA signing key.
func (id Identity) SigningKey() (*ecdsa.PrivateKey, error) {
	return jwk.ImportSigningPrivate(id.Signing)
}

// AgreementKey reconstructs the ECDH agreement key.
func (id Identity) AgreementKey() (*ecdh.PrivateKey, error) {
	return jwk.ImportAgreementPrivate(id.Agreement)
}

// PublicSigning returns the publishable signing record.
func (id Identity) PublicSigning() jwk.Record { return id.Signing.Public() }

// PublicAgreement returns the publishable agreement record.
func (id Identity) PublicAgreement() jwk.Record { return id.Agreement.Public() }
