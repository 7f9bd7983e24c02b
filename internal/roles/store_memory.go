package roles

import (
	"context"
	"sort"
	"sync"

	"verifi/pkg/domain"
)

// InMemory is the default role table: a map per role guarded by one mutex.
type InMemory struct {
	mu      sync.RWMutex
	members map[domain.Role]map[domain.Principal]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{members: make(map[domain.Role]map[domain.Principal]struct{})}
}

func (s *InMemory) Grant(_ context.Context, role domain.Role, principal domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[role] == nil {
		s.members[role] = make(map[domain.Principal]struct{})
	}
	s.members[role][principal] = struct{}{}
	return nil
}

func (s *InMemory) Revoke(_ context.Context, role domain.Role, principal domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[role], principal)
	return nil
}

func (s *InMemory) Has(_ context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[role][principal]
	return ok, nil
}

func (s *InMemory) ListMembers(_ context.Context, role domain.Role) ([]domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]domain.Principal, 0, len(s.members[role]))
	for p := range s.members[role] {
		members = append(members, p)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members, nil
}
