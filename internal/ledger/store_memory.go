package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemory struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.Seq = uint64(len(s.events)) + 1
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *InMemory) ListSince(_ context.Context, since uint64, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if since >= uint64(len(s.events)) {
		return nil, nil
	}
	tail := s.events[since:]
	if limit > 0 && len(tail) > limit {
		tail = tail[:limit]
	}
	return append([]Event{}, tail...), nil
}

func (s *InMemory) LastSeq(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.events)), nil
}
