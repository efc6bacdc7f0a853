package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"sealedchat/internal/crypto"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := make([]byte, crypto.SessionKeyBytes)
	for i := range key {
		key[i] = byte(i)
	}
	plaintext := []byte("the plan is in the usual place")
	aad := []byte(`{"from":"a","to":"b"}`)

	nonce, ct, err := crypto.Seal(key, plaintext, aad)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(nonce) != crypto.NonceBytes {
		t.Fatalf("nonce is %d bytes, want %d", len(nonce), crypto.NonceBytes)
	}

	got, err := crypto.Open(key, nonce, ct, aad)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("plaintext mismatch after round trip")
	}
}

func TestOpen_TamperedCiphertext_Fails(t *testing.T) {
	key := make([]byte, crypto.SessionKeyBytes)
	nonce, ct, err := crypto.Seal(key, []byte("hi"), nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	ct[0] ^= 1
	if _, err := crypto.Open(key, nonce, ct, nil); !errors.Is(err, crypto.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestOpen_WrongKey_Fails(t *testing.T) {
	key := make([]byte, crypto.SessionKeyBytes)
	nonce, ct, err := crypto.Seal(key, []byte("hi"), nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	other := make([]byte, crypto.SessionKeyBytes)
	other[0] = 1
	if _, err := crypto.Open(other, nonce, ct, nil); !errors.Is(err, crypto.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestOpen_WrongAAD_Fails(t *testing.T) {
	key := make([]byte, crypto.SessionKeyBytes)
	nonce, ct, err := crypto.Seal(key, []byte("hi"), []byte("aad-1"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := crypto.Open(key, nonce, ct, []byte("aad-2")); !errors.Is(err, crypto.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication, got %v", err)
	}
}

func TestSeal_NoncesAreUnique(t *testing.T) {
	key := make([]byte, crypto.SessionKeyBytes)
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		nonce, _, err := crypto.Seal(key, []byte("x"), nil)
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		if seen[string(nonce)] {
			t.Fatal("nonce repeated")
		}
		seen[string(nonce)] = true
	}
}

func TestDeriveSharedBits_BothDirectionsAgree(t *testing.T) {
	a, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	b, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}

	ab, err := crypto.DeriveSharedBits(a, b.PublicKey())
	if err != nil {
		t.Fatalf("DeriveSharedBits: %v", err)
	}
	ba, err := crypto.DeriveSharedBits(b, a.PublicKey())
	if err != nil {
		t.Fatalf("DeriveSharedBits: %v", err)
	}
	if !bytes.Equal(ab, ba) {
		t.Fatal("shared secrets differ by direction")
	}
}

func TestDeriveSessionKey_SaltMatters(t *testing.T) {
	shared := make([]byte, crypto.SharedBits)
	salt1, err := crypto.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	salt2, err := crypto.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}

	k1, err := crypto.DeriveSessionKey(shared, salt1, "test")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	k2, err := crypto.DeriveSessionKey(shared, salt2, "test")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	if bytes.Equal(k1, k2) {
		t.Fatal("different salts produced identical keys")
	}

	again, err := crypto.DeriveSessionKey(shared, salt1, "test")
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	if !bytes.Equal(k1, again) {
		t.Fatal("same inputs produced different keys")
	}
}

func TestSignVerify(t *testing.T) {
	priv, err := crypto.GenerateSigningKeypair()
	if err != nil {
		t.Fatalf("GenerateSigningKeypair: %v", err)
	}
	msg := []byte("sign me")
	sig, err := crypto.Sign(priv, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !crypto.Verify(&priv.PublicKey, msg, sig) {
		t.Fatal("valid signature rejected")
	}
	if crypto.Verify(&priv.PublicKey, []byte("other"), sig) {
		t.Fatal("signature accepted for different message")
	}
}

func TestKeyConfirmation(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	nonce := []byte("confirmation-nonce")

	tag := crypto.KeyConfirmation(key, nonce)
	if !crypto.VerifyKeyConfirmation(key, nonce, tag) {
		t.Fatal("valid tag rejected")
	}
	if crypto.VerifyKeyConfirmation([]byte("ffffffffffffffffffffffffffffffff"), nonce, tag) {
		t.Fatal("tag accepted under a different key")
	}
	tag[0] ^= 1
	if crypto.VerifyKeyConfirmation(key, nonce, tag) {
		t.Fatal("tampered tag accepted")
	}
}

func TestFingerprint_StableAndShort(t *testing.T) {
	priv, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	fp := crypto.Fingerprint(priv.PublicKey())
	if len(fp) != 20 {
		t.Fatalf("fingerprint is %d chars, want 20", len(fp))
	}
	if fp != crypto.Fingerprint(priv.PublicKey()) {
		t.Fatal("fingerprint not deterministic")
	}
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	crypto.Wipe(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}
