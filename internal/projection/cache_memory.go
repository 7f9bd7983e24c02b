package projection

import (
	"context"
	"sync"
	"time"

	"verifi/pkg/domain"
)

// InMemoryCache is the map-backed grant view used in tests and single-node
// deployments.
type InMemoryCache struct {
	mu     sync.RWMutex
	grants map[domain.DocumentID]map[domain.Principal]time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		grants: make(map[domain.DocumentID]map[domain.Principal]time.Time),
	}
}

func (c *InMemoryCache) SetGrant(_ context.Context, id domain.DocumentID, requester domain.Principal, grantedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	byDoc, ok := c.grants[id]
	if !ok {
		byDoc = make(map[domain.Principal]time.Time)
		c.grants[id] = byDoc
	}
	byDoc[requester] = grantedAt
	return nil
}

func (c *InMemoryCache) DeleteGrant(_ context.Context, id domain.DocumentID, requester domain.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if byDoc, ok := c.grants[id]; ok {
		delete(byDoc, requester)
		if len(byDoc) == 0 {
			delete(c.grants, id)
		}
	}
	return nil
}

func (c *InMemoryCache) DropDocument(_ context.Context, id domain.DocumentID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.grants, id)
	return nil
}

func (c *InMemoryCache) HasGrant(_ context.Context, id domain.DocumentID, requester domain.Principal) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byDoc, ok := c.grants[id]
	if !ok {
		return false, nil
	}
	_, ok = byDoc[requester]
	return ok, nil
}
