package store

import (
	"path/filepath"
	"sync"

	"sealedchat/internal/domain"
)

const sessionsFilename = "sessions.json"

// SessionFileStore persists established session records to disk, one per
// peer. Only public material and the send salt are stored; derived keys
// never touch disk.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// SaveSession writes the session record for a peer.
func (s *SessionFileStore) SaveSession(peerID string, rec domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFilename)
	sessions := map[string]domain.SessionRecord{}
	if _, err := loadJSON(path, &sessions); err != nil {
		return err
	}
	sessions[peerID] = rec
	return storeJSON(path, sessions)
}

// LoadSession retrieves the stored session record for a peer.
func (s *SessionFileStore) LoadSession(peerID string) (domain.SessionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFilename)
	sessions := map[string]domain.SessionRecord{}
	if _, err := loadJSON(path, &sessions); err != nil {
		return domain.SessionRecord{}, false, err
	}
	rec, ok := sessions[peerID]
	return rec, ok, nil
}

// ListSessions returns every stored session record.
func (s *SessionFileStore) ListSessions() ([]domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFilename)
	sessions := map[string]domain.SessionRecord{}
	if _, err := loadJSON(path, &sessions); err != nil {
		return nil, err
	}
	out := make([]domain.SessionRecord, 0, len(sessions))
	for _, rec := range sessions {
		out = append(out, rec)
	}
	return out, nil
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
