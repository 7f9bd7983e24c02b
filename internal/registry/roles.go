package registry

import (
	"context"

	"verifi/internal/ledger"
	"verifi/pkg/domain"
	dErrors "verifi/pkg/domain-errors"
)

// GrantRole adds principal to role. The caller must hold the role's
// administering role. Granting an already-held role succeeds and still
// appends an event.
func (s *Service) GrantRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error {
	ctx, span := s.startSpan(ctx, "registry.GrantRole")
	defer span.End()

	if !role.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRole(ctx, role.AdministeredBy(), caller); err != nil {
		return err
	}
	if err := s.roles.Grant(ctx, role, principal); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
	}
	if s.metrics != nil {
		s.metrics.RolesGranted.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:  ledger.ActionRoleGranted,
		Actor:   caller,
		Subject: principal,
		Role:    role,
	})
}

// RevokeRole removes principal from role, gated like GrantRole. Revoking a
// role not held is a no-op success that still appends an event.
func (s *Service) RevokeRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error {
	ctx, span := s.startSpan(ctx, "registry.RevokeRole")
	defer span.End()

	if !role.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRole(ctx, role.AdministeredBy(), caller); err != nil {
		return err
	}
	if err := s.roles.Revoke(ctx, role, principal); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke role")
	}
	if s.metrics != nil {
		s.metrics.RolesRevoked.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:  ledger.ActionRoleRevoked,
		Actor:   caller,
		Subject: principal,
		Role:    role,
	})
}

// HasRole answers a membership query; no authorization required.
func (s *Service) HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	ctx, span := s.startSpan(ctx, "registry.HasRole")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	held, err := s.roles.Has(ctx, role, principal)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check role membership")
	}
	return held, nil
}
