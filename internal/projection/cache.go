// Package projection derives a fast "who can see what" view from the event
// log. The registry stays authoritative; this cache exists so off-path
// consumers (gateways, UIs) answer access checks without hitting the
// registry's commit lock.
package projection

import (
	"context"
	"time"

	"verifi/pkg/domain"
)

// Cache is the grant read model. Implementations must tolerate replayed
// events: setting an existing grant or deleting a missing one is a no-op.
type Cache interface {
	SetGrant(ctx context.Context, id domain.DocumentID, requester domain.Principal, grantedAt time.Time) error
	DeleteGrant(ctx context.Context, id domain.DocumentID, requester domain.Principal) error
	// DropDocument removes every grant for the document at once.
	DropDocument(ctx context.Context, id domain.DocumentID) error
	HasGrant(ctx context.Context, id domain.DocumentID, requester domain.Principal) (bool, error)
}
