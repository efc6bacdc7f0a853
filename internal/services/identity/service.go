package identity

import (
	"fmt"
	"unicode"

	"sealedchat/internal/crypto"
	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
)

// minPassphraseLength defines the minimum number of characters required
// for a keystore passphrase.
const minPassphraseLength = 12

// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
var ErrWeakPassphrase = fmt.Errorf(
	"passphrase is too weak (must be at least %d characters and include upper, lower, "+
		"number, and symbol)",
	minPassphraseLength,
)

// Service manages identity key creation and access using a backing store.
//
// The identity contains:
//   - P-256 ECDSA key pair for signing (message authenticity).
//   - P-256 ECDH key pair for key agreement (per-pair session keys).
//
// The two pairs share a curve but never a purpose.
type Service struct {
	store domain.IdentityStore
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore) *Service { return &Service{store: s} }

// Generate creates identity keys if none exist yet, saves them encrypted
// with the passphrase, and returns the identity plus a short fingerprint
// of the agreement public key.
//
// Generation is idempotent: if keys already exist locally they are
// returned unchanged (regenerating would orphan every session derived
// from the old agreement key). The returned bool reports whether keys
// were created by this call.
func (s *Service) Generate(passphrase string) (domain.Identity, domain.Fingerprint, bool, error) {
	exists, err := s.store.HasIdentity()
	if err != nil {
		return domain.Identity{}, "", false, err
	}
	if exists {
		id, err := s.store.LoadIdentity(passphrase)
		if err != nil {
			return domain.Identity{}, "", false, err
		}
		fp, err := fingerprint(id)
		return id, fp, false, err
	}

	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, "", false, ErrWeakPassphrase
	}

	signingKey, err := crypto.GenerateSigningKeypair()
	if err != nil {
		return domain.Identity{}, "", false, err
	}
	agreementKey, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		return domain.Identity{}, "", false, err
	}

	signingRec, err := jwk.ExportSigningPrivate(signingKey)
	if err != nil {
		return domain.Identity{}, "", false, err
	}
	agreementRec, err := jwk.ExportAgreementPrivate(agreementKey)
	if err != nil {
		return domain.Identity{}, "", false, err
	}

	id := domain.Identity{Signing: signingRec, Agreement: agreementRec}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, "", false, err
	}
	return id, domain.Fingerprint(crypto.Fingerprint(agreementKey.PublicKey())), true, nil
}

// Load decrypts and returns the local identity.
func (s *Service) Load(passphrase string) (domain.Identity, error) {
	return s.store.LoadIdentity(passphrase)
}

// Fingerprint returns a short fingerprint of the local agreement public key.
func (s *Service) Fingerprint(passphrase string) (domain.Fingerprint, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return fingerprint(id)
}

func fingerprint(id domain.Identity) (domain.Fingerprint, error) {
	key, err := id.AgreementKey()
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint(key.PublicKey())), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
