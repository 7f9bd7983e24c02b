package access

import (
	"context"
	"sync"

	"verifi/pkg/domain"
	"verifi/pkg/platform/sentinel"
)

type pendingKey struct {
	owner domain.Principal
	doc   domain.DocumentID
}

// InMemory keeps the request table and pending index consistent under one
// mutex; the index entry for a key exists exactly while its record is
// pending.
type InMemory struct {
	mu       sync.RWMutex
	requests map[Key]Request
	pending  map[pendingKey][]domain.Principal
}

func NewInMemory() *InMemory {
	return &InMemory{
		requests: make(map[Key]Request),
		pending:  make(map[pendingKey][]domain.Principal),
	}
}

func (s *InMemory) Create(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.Key]; ok {
		return sentinel.ErrConflict
	}
	s.requests[req.Key] = *req
	if req.Status == StatusPending {
		pk := pendingKey{owner: req.Key.Owner, doc: req.Key.DocumentID}
		s.pending[pk] = append(s.pending[pk], req.Key.Requester)
	}
	return nil
}

func (s *InMemory) Get(_ context.Context, key Key) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &req, nil
}

func (s *InMemory) Update(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.requests[req.Key]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.requests[req.Key] = *req
	if prev.Status == StatusPending && req.Status != StatusPending {
		s.removePending(req.Key)
	}
	return nil
}

func (s *InMemory) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.requests, key)
	if req.Status == StatusPending {
		s.removePending(key)
	}
	return nil
}

func (s *InMemory) DeleteByDocument(_ context.Context, id domain.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.requests {
		if key.DocumentID == id {
			delete(s.requests, key)
		}
	}
	for pk := range s.pending {
		if pk.doc == id {
			delete(s.pending, pk)
		}
	}
	return nil
}

func (s *InMemory) PendingRequesters(_ context.Context, owner domain.Principal, id domain.DocumentID) ([]domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	waiting := s.pending[pendingKey{owner: owner, doc: id}]
	return append([]domain.Principal{}, waiting...), nil
}

// removePending must run under the write lock.
func (s *InMemory) removePending(key Key) {
	pk := pendingKey{owner: key.Owner, doc: key.DocumentID}
	waiting := s.pending[pk]
	for i, p := range waiting {
		if p == key.Requester {
			s.pending[pk] = append(waiting[:i], waiting[i+1:]...)
			break
		}
	}
	if len(s.pending[pk]) == 0 {
		delete(s.pending, pk)
	}
}
