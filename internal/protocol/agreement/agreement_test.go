package agreement_test

import (
	"bytes"
	"testing"

	"sealedchat/internal/crypto"
	"sealedchat/internal/jwk"
	"sealedchat/internal/protocol/agreement"
)

func TestInitiatorAndResponder_DeriveIdenticalKeys(t *testing.T) {
	// Alice initiates, Bob responds.
	alice, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	bob, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}

	alicePub, err := agreement.ExportPublic(alice)
	if err != nil {
		t.Fatalf("ExportPublic: %v", err)
	}
	bobPub, err := agreement.ExportPublic(bob)
	if err != nil {
		t.Fatalf("ExportPublic: %v", err)
	}

	aliceKey, salt, err := agreement.InitiatorKey(alice, bobPub)
	if err != nil {
		t.Fatalf("InitiatorKey: %v", err)
	}
	if len(salt) != crypto.SaltBytes {
		t.Fatalf("salt is %d bytes, want %d", len(salt), crypto.SaltBytes)
	}

	// Bob derives with the salt that rode along on the wire.
	bobKey, err := agreement.ResponderKey(bob, alicePub, salt)
	if err != nil {
		t.Fatalf("ResponderKey: %v", err)
	}
	if !bytes.Equal(aliceKey, bobKey) {
		t.Fatal("session keys differ between peers")
	}
}

func TestInitiatorKey_FreshSaltPerSession(t *testing.T) {
	alice, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	bob, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	bobPub, err := agreement.ExportPublic(bob)
	if err != nil {
		t.Fatalf("ExportPublic: %v", err)
	}

	k1, s1, err := agreement.InitiatorKey(alice, bobPub)
	if err != nil {
		t.Fatalf("InitiatorKey: %v", err)
	}
	k2, s2, err := agreement.InitiatorKey(alice, bobPub)
	if err != nil {
		t.Fatalf("InitiatorKey: %v", err)
	}
	if bytes.Equal(s1, s2) {
		t.Fatal("salts repeated across derivations")
	}
	if bytes.Equal(k1, k2) {
		t.Fatal("keys repeated despite fresh salts")
	}
}

func TestResponderKey_RejectsSigningRecord(t *testing.T) {
	alice, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	signer, err := crypto.GenerateSigningKeypair()
	if err != nil {
		t.Fatalf("GenerateSigningKeypair: %v", err)
	}
	signingRec, err := jwk.ExportSigningPublic(&signer.PublicKey)
	if err != nil {
		t.Fatalf("ExportSigningPublic: %v", err)
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	if _, err := agreement.ResponderKey(alice, signingRec, salt); err == nil {
		t.Fatal("signing record accepted for key agreement")
	}
}
