package envelope

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"sealedchat/internal/crypto"
	"sealedchat/internal/domain"
)

// ErrAuthentication is the single error for every failed Open. It aliases
// the crypto sentinel so callers can match either.
var ErrAuthentication = crypto.ErrAuthentication

const confirmNonceBytes = 16

// AssociatedData is the envelope metadata bound into the AEAD tag. It is
// not encrypted, but any tampering with it fails decryption.
type AssociatedData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Counter uint64 `json:"counter"`
}

// Bytes serializes the associated data canonically (sorted keys, compact
// JSON) so both ends bind the identical byte string.
func (a AssociatedData) Bytes() ([]byte, error) {
	return canonicalize(a)
}

// Sealed is a message that has been through the real encrypt path. Its
// fields are unexported and only Seal produces one, so an envelope with
// placeholder cryptographic material cannot be constructed.
type Sealed struct {
	ciphertext []byte
	nonce      []byte
	salt       []byte
	aad        AssociatedData

	signature    []byte
	confirmNonce []byte
	confirmTag   []byte
}

// Seal encrypts plaintext under the session key, binding aad. The salt is
// the HKDF salt the key was derived with; it rides along so the receiver
// can re-derive the key.
func Seal(key, salt, plaintext []byte, aad AssociatedData) (*Sealed, error) {
	aadBytes, err := aad.Bytes()
	if err != nil {
		return nil, err
	}
	nonce, ct, err := crypto.Seal(key, plaintext, aadBytes)
	if err != nil {
		return nil, err
	}
	return &Sealed{
		ciphertext: ct,
		nonce:      nonce,
		salt:       append([]byte(nil), salt...),
		aad:        aad,
	}, nil
}

// Sign attaches an ECDSA signature over ciphertext||aad. A forged
// ciphertext cannot be re-signed without the sender's private signing
// key, so authenticity holds independently of the symmetric key.
func (s *Sealed) Sign(priv *ecdsa.PrivateKey) error {
	msg, err := s.signedBytes()
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(priv, msg)
	if err != nil {
		return err
	}
	s.signature = sig
	return nil
}

// AttachConfirmation adds a key-confirmation nonce and tag proving
// possession of the session key.
func (s *Sealed) AttachConfirmation(key []byte) error {
	nonce := make([]byte, confirmNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	s.confirmNonce = nonce
	s.confirmTag = crypto.KeyConfirmation(key, nonce)
	return nil
}

// Wire renders the sealed envelope into its transport form.
func (s *Sealed) Wire(senderID, receiverID string) domain.WireMessage {
	return domain.WireMessage{
		Kind:         domain.KindSealed,
		SenderID:     senderID,
		ReceiverID:   receiverID,
		Ciphertext:   b64(s.ciphertext),
		Nonce:        b64(s.nonce),
		Salt:         b64(s.salt),
		ConfirmNonce: b64(s.confirmNonce),
		ConfirmTag:   b64(s.confirmTag),
		Signature:    b64(s.signature),
		Counter:      s.aad.Counter,
	}
}

func (s *Sealed) signedBytes() ([]byte, error) {
	aadBytes, err := s.aad.Bytes()
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), s.ciphertext...), aadBytes...), nil
}

// Open decrypts a wire envelope under the session key, rebinding aad.
// Every failure mode collapses into ErrAuthentication.
func Open(key []byte, msg domain.WireMessage, aad AssociatedData) ([]byte, error) {
	if msg.Kind != domain.KindSealed {
		return nil, errors.New("not a sealed message")
	}
	ct, nonce, err := decodePair(msg.Ciphertext, msg.Nonce)
	if err != nil {
		return nil, ErrAuthentication
	}
	aadBytes, err := aad.Bytes()
	if err != nil {
		return nil, err
	}
	return crypto.Open(key, nonce, ct, aadBytes)
}

// VerifySignature checks the envelope's signature over ciphertext||aad.
// Envelopes without a signature verify as false.
func VerifySignature(pub *ecdsa.PublicKey, msg domain.WireMessage, aad AssociatedData) bool {
	if msg.Signature == "" {
		return false
	}
	ct, sig, err := decodePair(msg.Ciphertext, msg.Signature)
	if err != nil {
		return false
	}
	aadBytes, err := aad.Bytes()
	if err != nil {
		return false
	}
	return crypto.Verify(pub, append(ct, aadBytes...), sig)
}

// VerifyConfirmation checks the key-confirmation tag, when present.
func VerifyConfirmation(key []byte, msg domain.WireMessage) bool {
	if msg.ConfirmNonce == "" || msg.ConfirmTag == "" {
		return false
	}
	nonce, tag, err := decodePair(msg.ConfirmNonce, msg.ConfirmTag)
	if err != nil {
		return false
	}
	return crypto.VerifyKeyConfirmation(key, nonce, tag)
}

func b64(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func decodePair(a, b string) ([]byte, []byte, error) {
	ab, err := base64.StdEncoding.DecodeString(a)
	if err != nil {
		return nil, nil, err
	}
	bb, err := base64.StdEncoding.DecodeString(b)
	if err != nil {
		return nil, nil, err
	}
	return ab, bb, nil
}
