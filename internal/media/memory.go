package media

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a test helper that implements Store in memory.
type MemoryStore struct {
	mu      sync.Mutex
	uploads []MemoryUpload
	err     error
}

// MemoryUpload records one Upload call.
type MemoryUpload struct {
	Data []byte
	Kind Kind
	URL  string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailWith makes every subsequent Upload return err.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Upload records the call and fabricates a stable URL.
func (s *MemoryStore) Upload(ctx context.Context, data []byte, kind Kind) (string, error) {
	if err := CheckSize(data, kind); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}

	url := fmt.Sprintf("https://cdn.test/%s/%d", kind, len(s.uploads)+1)
	s.uploads = append(s.uploads, MemoryUpload{Data: data, Kind: kind, URL: url})
	return url, nil
}

// Uploads returns a copy of all recorded uploads.
func (s *MemoryStore) Uploads() []MemoryUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MemoryUpload, len(s.uploads))
	copy(out, s.uploads)
	return out
}
