package identity_test

import (
	"errors"
	"reflect"
	"testing"

	"sealedchat/internal/jwk"
	"sealedchat/internal/services/identity"
	"sealedchat/internal/store"
)

const pass = "Correct-Horse-Battery-9"

func TestGenerate_CreatesBothKeyPairs(t *testing.T) {
	svc := identity.New(store.NewIdentityFileStore(t.TempDir()))

	id, fp, created, err := svc.Generate(pass)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !created {
		t.Fatal("first Generate must report created")
	}
	if fp == "" {
		t.Fatal("empty fingerprint")
	}
	if id.Signing.Kind() != jwk.KindSigningPrivate {
		t.Fatalf("signing kind = %s", id.Signing.Kind())
	}
	if id.Agreement.Kind() != jwk.KindAgreementPrivate {
		t.Fatalf("agreement kind = %s", id.Agreement.Kind())
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	svc := identity.New(store.NewIdentityFileStore(t.TempDir()))

	first, fp1, _, err := svc.Generate(pass)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// A second call must return the existing keys untouched; new keys
	// would orphan every session derived from the old ones.
	second, fp2, created, err := svc.Generate(pass)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if created {
		t.Fatal("second Generate must not create")
	}
	if !reflect.DeepEqual(first.Agreement, second.Agreement) || !reflect.DeepEqual(first.Signing, second.Signing) {
		t.Fatal("keys changed across Generate calls")
	}
	if fp1 != fp2 {
		t.Fatal("fingerprint changed across Generate calls")
	}
}

func TestGenerate_WeakPassphrase_Rejected(t *testing.T) {
	svc := identity.New(store.NewIdentityFileStore(t.TempDir()))

	for _, weak := range []string{"", "short", "alllowercaseonly", "NoDigitsHere!"} {
		if _, _, _, err := svc.Generate(weak); !errors.Is(err, identity.ErrWeakPassphrase) {
			t.Errorf("passphrase %q: want ErrWeakPassphrase, got %v", weak, err)
		}
	}
}

func TestLoadAndFingerprint(t *testing.T) {
	svc := identity.New(store.NewIdentityFileStore(t.TempDir()))

	id, fp, _, err := svc.Generate(pass)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	loaded, err := svc.Load(pass)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded.Agreement, id.Agreement) {
		t.Fatal("loaded identity differs")
	}

	got, err := svc.Fingerprint(pass)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if got != fp {
		t.Fatalf("fingerprint = %s, want %s", got, fp)
	}

	if _, err := svc.Load("Wrong-Passphrase-1!"); err == nil {
		t.Fatal("load with wrong passphrase succeeded")
	}
}
