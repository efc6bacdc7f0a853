package agreement

import (
	"crypto/ecdh"

	"sealedchat/internal/crypto"
	"sealedchat/internal/jwk"
)

// Info is the fixed HKDF context string. Both peers must use the same
// value or their derived keys will differ.
const Info = "sealedchat session v1"

// InitiatorKey derives a session key against the peer's public agreement
// record, generating a fresh random salt. The salt must reach the peer
// (it travels on each envelope) so they can derive the identical key.
func InitiatorKey(local *ecdh.PrivateKey, peer jwk.Record) (key, salt []byte, err error) {
	salt, err = crypto.NewSalt()
	if err != nil {
		return nil, nil, err
	}
	key, err = ResponderKey(local, peer, salt)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

// ResponderKey derives the session key from a received salt. For the same
// (key pair, peer record, salt) both derivations yield bit-identical
// keys; that property is what makes the asynchronous handshake work.
func ResponderKey(local *ecdh.PrivateKey, peer jwk.Record, salt []byte) ([]byte, error) {
	remote, err := jwk.ImportAgreementPublic(peer)
	if err != nil {
		return nil, err
	}
	shared, err := crypto.DeriveSharedBits(local, remote)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(shared)
	return crypto.DeriveSessionKey(shared, salt, Info)
}

// ExportPublic publishes the agreement half of a key pair.
func ExportPublic(priv *ecdh.PrivateKey) (jwk.Record, error) {
	return jwk.ExportAgreementPublic(priv.PublicKey())
}

// ImportPublic imports a record, accepting only the agreement-public
// variant.
func ImportPublic(rec jwk.Record) (*ecdh.PublicKey, error) {
	return jwk.ImportAgreementPublic(rec)
}
