// Package alias holds the identity-alias table: a write-once mapping from a
// student's opaque handle to their principal.
package alias

import (
	"context"
	"time"

	"verifi/pkg/domain"
)

// Entry is one bound alias. Entries are immutable; there is no update path.
type Entry struct {
	Alias   domain.Alias
	Owner   domain.Principal
	BoundAt time.Time
}

// Store persists alias entries. Bind returns sentinel.ErrAlreadyUsed when
// the alias is taken; Resolve returns sentinel.ErrNotFound when unbound.
type Store interface {
	Bind(ctx context.Context, entry Entry) error
	Resolve(ctx context.Context, a domain.Alias) (Entry, error)
}
