package store_test

import (
	"reflect"
	"testing"

	"sealedchat/internal/crypto"
	"sealedchat/internal/domain"
	"sealedchat/internal/jwk"
	"sealedchat/internal/store"
)

func testIdentity(t *testing.T) domain.Identity {
	t.Helper()
	signing, err := crypto.GenerateSigningKeypair()
	if err != nil {
		t.Fatalf("GenerateSigningKeypair: %v", err)
	}
	agreement, err := crypto.GenerateAgreementKeypair()
	if err != nil {
		t.Fatalf("GenerateAgreementKeypair: %v", err)
	}
	signingRec, err := jwk.ExportSigningPrivate(signing)
	if err != nil {
		t.Fatalf("ExportSigningPrivate: %v", err)
	}
	agreementRec, err := jwk.ExportAgreementPrivate(agreement)
	if err != nil {
		t.Fatalf("ExportAgreementPrivate: %v", err)
	}
	return domain.Identity{Signing: signingRec, Agreement: agreementRec}
}

func TestIdentity_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	pass := "pass"

	var ids domain.IdentityStore = store.NewIdentityFileStore(home)

	id := testIdentity(t)
	if err := ids.SaveIdentity(pass, id); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	got, err := ids.LoadIdentity(pass)
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if !reflect.DeepEqual(got.Signing, id.Signing) || !reflect.DeepEqual(got.Agreement, id.Agreement) {
		t.Fatalf("mismatch after load")
	}
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = store.NewIdentityFileStore(home)

	if err := ids.SaveIdentity("correct", testIdentity(t)); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	if _, err := ids.LoadIdentity("wrong"); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestIdentity_Has(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = store.NewIdentityFileStore(home)

	has, err := ids.HasIdentity()
	if err != nil {
		t.Fatalf("has identity: %v", err)
	}
	if has {
		t.Fatal("identity reported before save")
	}

	if err := ids.SaveIdentity("pass", testIdentity(t)); err != nil {
		t.Fatalf("save identity: %v", err)
	}
	has, err = ids.HasIdentity()
	if err != nil {
		t.Fatalf("has identity: %v", err)
	}
	if !has {
		t.Fatal("identity not reported after save")
	}
}

func TestSessions_SaveLoadList(t *testing.T) {
	home := t.TempDir()
	var sessions domain.SessionStore = store.NewSessionFileStore(home)

	rec := domain.SessionRecord{
		PeerID:       "peer-1",
		PeerUsername: "bob",
		Role:         domain.RoleInitiator,
	}
	if err := sessions.SaveSession(rec.PeerID, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, ok, err := sessions.LoadSession("peer-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !ok {
		t.Fatal("session not found after save")
	}
	if got.PeerUsername != "bob" || got.Role != domain.RoleInitiator {
		t.Fatalf("mismatch after load: %+v", got)
	}

	if _, ok, err := sessions.LoadSession("peer-2"); err != nil || ok {
		t.Fatalf("unexpected session for unknown peer (ok=%v err=%v)", ok, err)
	}

	all, err := sessions.ListSessions()
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("want 1 session, got %d", len(all))
	}
}

func TestCounters_MonotonicAndPersistent(t *testing.T) {
	home := t.TempDir()

	var counters domain.CounterStore = store.NewCounterFileStore(home)
	for want := uint64(1); want <= 5; want++ {
		got, err := counters.NextCounter("peer-1")
		if err != nil {
			t.Fatalf("next counter: %v", err)
		}
		if got != want {
			t.Fatalf("counter = %d, want %d", got, want)
		}
	}

	// Independent per peer.
	if got, err := counters.NextCounter("peer-2"); err != nil || got != 1 {
		t.Fatalf("peer-2 counter = %d (err=%v), want 1", got, err)
	}

	// A new store over the same directory continues, never repeats.
	counters = store.NewCounterFileStore(home)
	if got, err := counters.NextCounter("peer-1"); err != nil || got != 6 {
		t.Fatalf("counter after reopen = %d (err=%v), want 6", got, err)
	}
}

func TestCredentials_SaveLoad(t *testing.T) {
	home := t.TempDir()
	var creds domain.CredentialStore = store.NewCredentialFileStore(home)

	if _, ok, err := creds.LoadCredentials(); err != nil || ok {
		t.Fatalf("unexpected cached credentials (ok=%v err=%v)", ok, err)
	}

	want := domain.Credentials{Token: "tok", UserID: "u1", Username: "alice"}
	if err := creds.SaveCredentials(want); err != nil {
		t.Fatalf("save credentials: %v", err)
	}
	got, ok, err := creds.LoadCredentials()
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if !ok || got != want {
		t.Fatalf("mismatch after load: %+v", got)
	}
}
