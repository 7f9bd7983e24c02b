package registry

import (
	"context"
	"errors"

	"verifi/internal/alias"
	"verifi/internal/ledger"
	"verifi/pkg/domain"
	dErrors "verifi/pkg/domain-errors"
	"verifi/pkg/platform/sentinel"
)

// BindAlias binds a never-used alias to a principal. Admin-only; the
// binding is immutable afterwards.
func (s *Service) BindAlias(ctx context.Context, caller domain.Principal, a domain.Alias, principal domain.Principal) error {
	ctx, span := s.startSpan(ctx, "registry.BindAlias")
	defer span.End()

	if a.IsNil() {
		return ErrAliasEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRole(ctx, domain.RoleAdmin, caller); err != nil {
		return err
	}
	entry := alias.Entry{Alias: a, Owner: principal, BoundAt: s.now()}
	if err := s.aliases.Bind(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return ErrAliasAlreadyBound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind alias")
	}
	if s.metrics != nil {
		s.metrics.AliasesBound.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:  ledger.ActionAliasBound,
		Actor:   caller,
		Subject: principal,
		Alias:   a,
	})
}

// ResolveAlias returns the principal bound to the alias; pure query.
func (s *Service) ResolveAlias(ctx context.Context, a domain.Alias) (domain.Principal, error) {
	ctx, span := s.startSpan(ctx, "registry.ResolveAlias")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.aliases.Resolve(ctx, a)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.NilPrincipal, ErrAliasNotFound
		}
		return domain.NilPrincipal, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve alias")
	}
	return entry.Owner, nil
}
