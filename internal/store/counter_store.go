package store

import (
	"path/filepath"
	"sync"

	"sealedchat/internal/domain"
)

const countersFilename = "counters.json"

// CounterFileStore allocates the strictly-increasing replay counter for
// each peer. The counter is persisted before being handed out, so a
// crash can skip values but never repeat one.
type CounterFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewCounterFileStore returns a CounterFileStore rooted at dir.
func NewCounterFileStore(dir string) *CounterFileStore {
	return &CounterFileStore{dir: dir}
}

// NextCounter returns the next counter for the ordered (us, peer) pair.
func (s *CounterFileStore) NextCounter(peerID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, countersFilename)
	counters := map[string]uint64{}
	if _, err := loadJSON(path, &counters); err != nil {
		return 0, err
	}
	next := counters[peerID] + 1
	counters[peerID] = next
	if err := storeJSON(path, counters); err != nil {
		return 0, err
	}
	return next, nil
}

// Compile-time assertion that CounterFileStore implements domain.CounterStore.
var _ domain.CounterStore = (*CounterFileStore)(nil)
