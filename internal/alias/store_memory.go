package alias

import (
	"context"
	"sync"

	"verifi/pkg/domain"
	"verifi/pkg/platform/sentinel"
)

type InMemory struct {
	mu      sync.RWMutex
	entries map[domain.Alias]Entry
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[domain.Alias]Entry)}
}

func (s *InMemory) Bind(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.Alias]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.entries[entry.Alias] = entry
	return nil
}

func (s *InMemory) Resolve(_ context.Context, a domain.Alias) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[a]
	if !ok {
		return Entry{}, sentinel.ErrNotFound
	}
	return entry, nil
}
