package store

import (
	"path/filepath"
	"sync"

	"sealedchat/internal/domain"
)

const credentialsFilename = "credentials.json"

// CredentialFileStore caches the directory login token between CLI
// invocations. Tokens expire server-side; the cache is best-effort.
type CredentialFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewCredentialFileStore returns a CredentialFileStore rooted at dir.
func NewCredentialFileStore(dir string) *CredentialFileStore {
	return &CredentialFileStore{dir: dir}
}

// SaveCredentials stores the login token and identity of the caller.
func (s *CredentialFileStore) SaveCredentials(c domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return storeJSON(filepath.Join(s.dir, credentialsFilename), c)
}

// LoadCredentials retrieves the cached login, if any.
func (s *CredentialFileStore) LoadCredentials() (domain.Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c domain.Credentials
	found, err := loadJSON(filepath.Join(s.dir, credentialsFilename), &c)
	if err != nil {
		return domain.Credentials{}, false, err
	}
	return c, found && c.Token != "", nil
}

// Compile-time assertion that CredentialFileStore implements domain.CredentialStore.
var _ domain.CredentialStore = (*CredentialFileStore)(nil)
