package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
)

// MemoryActionStore implements ActionStore in memory. Used in tests and
// for local development without a database.
type MemoryActionStore struct {
	mu      sync.RWMutex
	records []v1.ActionRecord
	nextSeq int64
	failErr error
}

// NewMemoryActionStore creates an empty in-memory action log.
func NewMemoryActionStore() *MemoryActionStore {
	return &MemoryActionStore{nextSeq: 1}
}

// FailWith makes every subsequent call return err. Passing nil restores
// normal operation.
func (s *MemoryActionStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *MemoryActionStore) SaveAction(ctx context.Context, record *v1.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}

	record.Seq = s.nextSeq
	s.nextSeq++
	s.records = append(s.records, *record)
	return nil
}

// newestFirst returns a copy sorted created_at DESC, seq ASC.
func (s *MemoryActionStore) newestFirst() []v1.ActionRecord {
	out := make([]v1.ActionRecord, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

func (s *MemoryActionStore) ListActions(ctx context.Context) ([]v1.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}
	return s.newestFirst(), nil
}

func (s *MemoryActionStore) ListActionsPage(ctx context.Context, offset, limit int) ([]v1.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}

	all := s.newestFirst()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *MemoryActionStore) RecentActions(ctx context.Context, limit int) ([]v1.ActionRecord, error) {
	return s.ListActionsPage(ctx, 0, limit)
}

func (s *MemoryActionStore) CountActions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return 0, s.failErr
	}
	return len(s.records), nil
}

func (s *MemoryActionStore) CountDistinctIPs(ctx context.Context, action string) (int, error) {
	return s.countDistinct(action, time.Time{})
}

func (s *MemoryActionStore) CountDistinctIPsSince(ctx context.Context, action string, since time.Time) (int, error) {
	return s.countDistinct(action, since)
}

func (s *MemoryActionStore) countDistinct(action string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return 0, s.failErr
	}

	seen := make(map[string]struct{})
	for _, rec := range s.records {
		if rec.Action != action {
			continue
		}
		if !since.IsZero() && rec.CreatedAt.Before(since) {
			continue
		}
		key := rec.IPAddress
		if key == "" {
			key = v1.UnknownIP
		}
		seen[key] = struct{}{}
	}
	return len(seen), nil
}
