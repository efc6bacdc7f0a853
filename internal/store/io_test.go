package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"sealedchat/internal/domain"
	"sealedchat/internal/store"
)

func TestCredentials_MissingFileIsNotLoggedIn(t *testing.T) {
	cs := store.NewCredentialFileStore(t.TempDir())

	_, ok, err := cs.LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials on empty dir: %v", err)
	}
	if ok {
		t.Fatal("empty dir reported a cached login")
	}
}

func TestCredentials_CorruptFileSurfacesError(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	cs := store.NewCredentialFileStore(home)
	if _, _, err := cs.LoadCredentials(); err == nil {
		t.Fatal("corrupt credentials file loaded without error")
	}
}

func TestStores_WriteOwnerOnlyAndLeaveNoTempFiles(t *testing.T) {
	home := t.TempDir()

	cs := store.NewCredentialFileStore(home)
	if err := cs.SaveCredentials(domain.Credentials{UserID: "u", Username: "alice", Token: "tok"}); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}
	ids := store.NewIdentityFileStore(home)
	if err := ids.SaveIdentity("pass", testIdentity(t)); err != nil {
		t.Fatalf("SaveIdentity: %v", err)
	}

	entries, err := os.ReadDir(home)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		name := e.Name()
		if name != "credentials.json" && name != "identity.json.enc" {
			t.Fatalf("unexpected leftover file %q", name)
		}
		info, err := e.Info()
		if err != nil {
			t.Fatalf("Info(%s): %v", name, err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("%s has mode %o, want 600", name, perm)
		}
	}
}
