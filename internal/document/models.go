// Package document holds the document table and the certificate table that
// admins mint against attested documents.
package document

import (
	"time"

	"verifi/pkg/domain"
)

// Document is one registered attestation record. The bytes it describes live
// off-chain behind ContentCID; the registry only stores the descriptor.
//
// Uploader and Owner are distinct on purpose: a verifier uploads on behalf of
// the student who owns the record. Deletion is gated on Uploader, every
// access-grant decision on Owner.
type Document struct {
	ID           domain.DocumentID
	Title        string
	Description  string
	DocumentType string
	ContentCID   string
	Uploader     domain.Principal
	Owner        domain.Principal
	Verified     bool
	VerifiedBy   domain.Principal
	VerifiedAt   *time.Time
	UploadedAt   time.Time
}

// Certificate records that an admin minted a certificate for a document.
// At most one certificate exists per document.
type Certificate struct {
	DocumentID domain.DocumentID
	IssuedBy   domain.Principal
	IssuedAt   time.Time
}
