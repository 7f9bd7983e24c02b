package document

import (
	"context"

	"verifi/pkg/domain"
)

// Store persists documents and certificates with per-key atomic operations.
//
// Sentinels: Create returns sentinel.ErrConflict on an occupied ID; Get,
// Update and Delete return sentinel.ErrNotFound for absent IDs;
// CreateCertificate returns sentinel.ErrAlreadyUsed when the document already
// has one. DeleteCertificate is a purge: absent certificates are not an
// error.
type Store interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id domain.DocumentID) (*Document, error)
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id domain.DocumentID) error
	Exists(ctx context.Context, id domain.DocumentID) (bool, error)
	ListByUploader(ctx context.Context, uploader domain.Principal) ([]*Document, error)

	CreateCertificate(ctx context.Context, cert *Certificate) error
	GetCertificate(ctx context.Context, id domain.DocumentID) (*Certificate, error)
	DeleteCertificate(ctx context.Context, id domain.DocumentID) error
}
