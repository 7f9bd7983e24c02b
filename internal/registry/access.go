package registry

import (
	"context"
	"errors"

	"verifi/internal/access"
	"verifi/internal/document"
	"verifi/internal/ledger"
	"verifi/pkg/domain"
	dErrors "verifi/pkg/domain-errors"
	"verifi/pkg/platform/sentinel"
)

// RequestAccess opens a pending request from the caller for a document.
// The owner cannot request their own document, and only one live record may
// exist per (owner, document, requester) key.
func (s *Service) RequestAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID) error {
	ctx, span := s.startSpan(ctx, "registry.RequestAccess")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requestAccessLocked(ctx, caller, id)
}

// RequestAccessByAlias is how a third party requests access knowing only the
// owner's handed-out alias: the alias must resolve, and the resolved
// principal must own the document.
func (s *Service) RequestAccessByAlias(ctx context.Context, caller domain.Principal, a domain.Alias, id domain.DocumentID) error {
	ctx, span := s.startSpan(ctx, "registry.RequestAccessByAlias")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.aliases.Resolve(ctx, a)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrAliasNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve alias")
	}
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.Owner != entry.Owner {
		return ErrAliasDocumentMismatch
	}
	return s.requestAccessLocked(ctx, caller, id)
}

// requestAccessLocked holds the commit lock.
func (s *Service) requestAccessLocked(ctx context.Context, caller domain.Principal, id domain.DocumentID) error {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.Owner == caller {
		return ErrSelfAccessRequest
	}
	req := &access.Request{
		Key:         access.Key{Owner: doc.Owner, DocumentID: id, Requester: caller},
		Status:      access.StatusPending,
		RequestedAt: s.now(),
	}
	if err := s.access.Create(ctx, req); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return ErrAccessRequestAlreadyExists
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create access request")
	}
	if s.metrics != nil {
		s.metrics.AccessRequested.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:     ledger.ActionAccessRequested,
		Actor:      caller,
		Subject:    doc.Owner,
		Requester:  caller,
		DocumentID: &id,
	})
}

// GrantAccess approves a pending request. Owner-only; stamps GrantedAt and
// clears the pending-index entry.
func (s *Service) GrantAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID, requester domain.Principal) error {
	ctx, span := s.startSpan(ctx, "registry.GrantAccess")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.ownedRequest(ctx, caller, id, requester)
	if err != nil {
		return err
	}
	if req.Status != access.StatusPending {
		return ErrNoAccessRequestFound
	}
	now := s.now()
	req.Status = access.StatusApproved
	req.GrantedAt = &now
	if err := s.access.Update(ctx, req); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update access request")
	}
	if s.metrics != nil {
		s.metrics.AccessGranted.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:     ledger.ActionAccessGranted,
		Actor:      caller,
		Subject:    caller,
		Requester:  requester,
		DocumentID: &id,
	})
}

// RejectAccess declines a pending request. The record is deleted, not
// flagged: the key returns to absent and may be re-requested.
func (s *Service) RejectAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID, requester domain.Principal) error {
	ctx, span := s.startSpan(ctx, "registry.RejectAccess")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.ownedRequest(ctx, caller, id, requester)
	if err != nil {
		return err
	}
	if req.Status != access.StatusPending {
		return ErrNoAccessRequestFound
	}
	if err := s.access.Delete(ctx, req.Key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete access request")
	}
	if s.metrics != nil {
		s.metrics.AccessRejected.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:     ledger.ActionAccessRejected,
		Actor:      caller,
		Subject:    caller,
		Requester:  requester,
		DocumentID: &id,
	})
}

// RevokeAccess withdraws a granted access. Owner-only; fails unless the
// record is approved, and deletes it so the requester may ask again.
func (s *Service) RevokeAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID, requester domain.Principal) error {
	ctx, span := s.startSpan(ctx, "registry.RevokeAccess")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.Owner != caller {
		return ErrNotDocumentOwner
	}
	key := access.Key{Owner: caller, DocumentID: id, Requester: requester}
	req, err := s.access.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrNoGrantedAccessToRevoke
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access request")
	}
	if req.Status != access.StatusApproved {
		return ErrNoGrantedAccessToRevoke
	}
	if err := s.access.Delete(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete access request")
	}
	if s.metrics != nil {
		s.metrics.AccessRevoked.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:     ledger.ActionAccessRevoked,
		Actor:      caller,
		Subject:    caller,
		Requester:  requester,
		DocumentID: &id,
	})
}

// CheckAccess reports whether requester currently holds approved access to
// the document. Pure query, no authorization: it reveals a boolean, never
// document contents. A missing document simply answers false.
func (s *Service) CheckAccess(ctx context.Context, id domain.DocumentID, requester domain.Principal) (bool, error) {
	ctx, span := s.startSpan(ctx, "registry.CheckAccess")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	req, err := s.access.Get(ctx, access.Key{Owner: doc.Owner, DocumentID: id, Requester: requester})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access request")
	}
	return req.Status == access.StatusApproved, nil
}

// PendingRequests lists who is currently waiting on a document; pure query
// backed by the pending index.
func (s *Service) PendingRequests(ctx context.Context, id domain.DocumentID) ([]domain.Principal, error) {
	ctx, span := s.startSpan(ctx, "registry.PendingRequests")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	waiting, err := s.access.PendingRequesters(ctx, doc.Owner, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending requesters")
	}
	return waiting, nil
}

// ownedRequest loads the request for (owner=caller, id, requester) after
// checking document ownership. Holds the commit lock.
func (s *Service) ownedRequest(ctx context.Context, caller domain.Principal, id domain.DocumentID, requester domain.Principal) (*access.Request, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Owner != caller {
		return nil, ErrNotDocumentOwner
	}
	req, err := s.access.Get(ctx, access.Key{Owner: caller, DocumentID: id, Requester: requester})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrNoAccessRequestFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access request")
	}
	return req, nil
}

// getDocument translates the store sentinel; holds either lock side.
func (s *Service) getDocument(ctx context.Context, id domain.DocumentID) (*document.Document, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	return doc, nil
}
