package registry

import (
	"context"
	"errors"
	"strings"

	"verifi/internal/document"
	"verifi/internal/ledger"
	"verifi/pkg/domain"
	dErrors "verifi/pkg/domain-errors"
	"verifi/pkg/platform/sentinel"
)

// UploadRequest carries the fields of one registration. ID is ignored in
// content-derived addressing mode; Owner defaults to the caller when empty.
type UploadRequest struct {
	ID           domain.DocumentID
	Title        string
	Description  string
	DocumentType string
	ContentCID   string
	Owner        domain.Principal
}

// Upload registers a document. Verifier-only.
func (s *Service) Upload(ctx context.Context, caller domain.Principal, req UploadRequest) (*document.Document, error) {
	ctx, span := s.startSpan(ctx, "registry.Upload")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRole(ctx, domain.RoleVerifier, caller); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.DocumentType) == "" {
		return nil, ErrEmptyField
	}
	if strings.TrimSpace(req.ContentCID) == "" {
		return nil, ErrEmptyContentPointer
	}

	id := req.ID
	if s.addressing == AddressingContent {
		id = domain.DeriveDocumentID(req.ContentCID)
	}
	owner := req.Owner
	if owner.IsNil() {
		owner = caller
	}

	doc := &document.Document{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		DocumentType: req.DocumentType,
		ContentCID:   req.ContentCID,
		Uploader:     caller,
		Owner:        owner,
		UploadedAt:   s.now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, ErrDocumentAlreadyExists
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create document")
	}
	if s.metrics != nil {
		s.metrics.DocumentsUploaded.Inc()
	}
	if err := s.emit(ctx, ledger.Event{
		Action:     ledger.ActionDocumentUploaded,
		Actor:      caller,
		Subject:    owner,
		DocumentID: &doc.ID,
		Detail:     doc.Title,
	}); err != nil {
		return nil, err
	}
	return doc, nil
}

// Retrieve returns the document tuple. Verifier-gated: third parties read
// the underlying bytes off-chain once CheckAccess says yes.
func (s *Service) Retrieve(ctx context.Context, caller domain.Principal, id domain.DocumentID) (*document.Document, error) {
	ctx, span := s.startSpan(ctx, "registry.Retrieve")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.requireRole(ctx, domain.RoleVerifier, caller); err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	return doc, nil
}

// Remove deletes a document. Only its uploader may do this; all access
// state and any minted certificate go with it, so a re-used ID starts clean.
func (s *Service) Remove(ctx context.Context, caller domain.Principal, id domain.DocumentID) error {
	ctx, span := s.startSpan(ctx, "registry.Remove")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	if doc.Uploader != caller {
		return ErrNotUploader
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete document")
	}
	if err := s.access.DeleteByDocument(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge access records")
	}
	if err := s.documents.DeleteCertificate(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge certificate")
	}
	if s.metrics != nil {
		s.metrics.DocumentsDeleted.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:     ledger.ActionDocumentDeleted,
		Actor:      caller,
		Subject:    doc.Owner,
		DocumentID: &id,
	})
}

// Exists is a pure existence query.
func (s *Service) Exists(ctx context.Context, id domain.DocumentID) (bool, error) {
	ctx, span := s.startSpan(ctx, "registry.Exists")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ok, err := s.documents.Exists(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check document existence")
	}
	return ok, nil
}

// DocumentsByUploader lists the documents a verifier registered; pure query.
func (s *Service) DocumentsByUploader(ctx context.Context, uploader domain.Principal) ([]*document.Document, error) {
	ctx, span := s.startSpan(ctx, "registry.DocumentsByUploader")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.documents.ListByUploader(ctx, uploader)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// VerifyDocument records an admin's attestation that the document content
// was inspected. Verifying twice is a conflict.
func (s *Service) VerifyDocument(ctx context.Context, caller domain.Principal, id domain.DocumentID) error {
	ctx, span := s.startSpan(ctx, "registry.VerifyDocument")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRole(ctx, domain.RoleAdmin, caller); err != nil {
		return err
	}
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	if doc.Verified {
		return ErrDocumentAlreadyVerified
	}
	now := s.now()
	doc.Verified = true
	doc.VerifiedBy = caller
	doc.VerifiedAt = &now
	if err := s.documents.Update(ctx, doc); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update document")
	}
	if s.metrics != nil {
		s.metrics.DocumentsVerified.Inc()
	}
	return s.emit(ctx, ledger.Event{
		Action:     ledger.ActionDocumentVerified,
		Actor:      caller,
		Subject:    doc.Owner,
		DocumentID: &id,
	})
}

// MintCertificate mints the single certificate for a document. Admin-only.
func (s *Service) MintCertificate(ctx context.Context, caller domain.Principal, id domain.DocumentID) (*document.Certificate, error) {
	ctx, span := s.startSpan(ctx, "registry.MintCertificate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRole(ctx, domain.RoleAdmin, caller); err != nil {
		return nil, err
	}
	exists, err := s.documents.Exists(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check document existence")
	}
	if !exists {
		return nil, ErrDocumentNotFound
	}
	cert := &document.Certificate{DocumentID: id, IssuedBy: caller, IssuedAt: s.now()}
	if err := s.documents.CreateCertificate(ctx, cert); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, ErrCertificateAlreadyMinted
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint certificate")
	}
	if s.metrics != nil {
		s.metrics.CertificatesMinted.Inc()
	}
	if err := s.emit(ctx, ledger.Event{
		Action:     ledger.ActionCertificateMinted,
		Actor:      caller,
		DocumentID: &id,
	}); err != nil {
		return nil, err
	}
	return cert, nil
}

// Certificate returns the minted certificate for a document; pure query.
func (s *Service) Certificate(ctx context.Context, id domain.DocumentID) (*document.Certificate, error) {
	ctx, span := s.startSpan(ctx, "registry.Certificate")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	cert, err := s.documents.GetCertificate(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certificate")
	}
	return cert, nil
}
