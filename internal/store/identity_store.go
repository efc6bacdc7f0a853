package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"sealedchat/internal/domain"
)

const identityFilename = "identity.json.enc"

// IdentityFileStore persists the local identity to disk, encrypted under
// the owner's passphrase.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir}
}

// SaveIdentity writes the encrypted identity to disk.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	ct, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return storeRaw(filepath.Join(s.dir, identityFilename), ct)
}

// LoadIdentity reads and decrypts the identity.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, identityFilename))
	if err != nil {
		return domain.Identity{}, err
	}
	pt, err := decrypt(passphrase, b)
	if err != nil {
		return domain.Identity{}, err
	}
	var id domain.Identity
	if err := json.Unmarshal(pt, &id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// HasIdentity reports whether identity keys already exist on disk.
func (s *IdentityFileStore) HasIdentity() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(filepath.Join(s.dir, identityFilename))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
