package registry

import dErrors "verifi/pkg/domain-errors"

// Every precondition failure surfaces one of these, so callers and tests
// branch with errors.Is instead of matching strings. The attached code is
// what transports map onto a status.
var (
	// Authorization
	ErrUnauthorized     = dErrors.New(dErrors.CodeUnauthorized, "caller does not hold the required role")
	ErrNotDocumentOwner = dErrors.New(dErrors.CodeForbidden, "caller is not the document owner")
	ErrNotUploader      = dErrors.New(dErrors.CodeUnauthorized, "only the uploader can delete the document")

	// Not found
	ErrDocumentNotFound     = dErrors.New(dErrors.CodeNotFound, "document not found")
	ErrNoAccessRequestFound = dErrors.New(dErrors.CodeNotFound, "no access request found")
	ErrAliasNotFound        = dErrors.New(dErrors.CodeNotFound, "alias is not bound")
	ErrCertificateNotFound  = dErrors.New(dErrors.CodeNotFound, "no certificate minted for document")

	// Conflict
	ErrDocumentAlreadyExists      = dErrors.New(dErrors.CodeConflict, "document already exists")
	ErrAliasAlreadyBound          = dErrors.New(dErrors.CodeConflict, "alias already in use")
	ErrAccessRequestAlreadyExists = dErrors.New(dErrors.CodeConflict, "a live access request already exists")
	ErrNoGrantedAccessToRevoke    = dErrors.New(dErrors.CodeConflict, "no granted access to revoke")
	ErrDocumentAlreadyVerified    = dErrors.New(dErrors.CodeConflict, "document already verified")
	ErrCertificateAlreadyMinted   = dErrors.New(dErrors.CodeConflict, "certificate already minted")

	// Validation
	ErrEmptyField            = dErrors.New(dErrors.CodeValidation, "title, description and document type must not be empty")
	ErrEmptyContentPointer   = dErrors.New(dErrors.CodeValidation, "content pointer must not be empty")
	ErrAliasEmpty            = dErrors.New(dErrors.CodeValidation, "alias must not be empty")
	ErrSelfAccessRequest     = dErrors.New(dErrors.CodeValidation, "document owner cannot request access to their own document")
	ErrAliasDocumentMismatch = dErrors.New(dErrors.CodeValidation, "alias does not resolve to the document owner")
)
