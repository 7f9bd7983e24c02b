// Package roles holds the role membership table. Authorization decisions are
// made in the registry service; this package only answers membership facts.
package roles

import (
	"context"

	"verifi/pkg/domain"
)

// Store persists (role, principal) membership. Grant and Revoke are
// idempotent at this layer; the registry decides whether the caller is
// allowed to call them at all.
type Store interface {
	Grant(ctx context.Context, role domain.Role, principal domain.Principal) error
	Revoke(ctx context.Context, role domain.Role, principal domain.Principal) error
	Has(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)
	ListMembers(ctx context.Context, role domain.Role) ([]domain.Principal, error)
}
