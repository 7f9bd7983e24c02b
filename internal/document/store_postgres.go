package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"verifi/pkg/domain"
	"verifi/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists documents and certificates. Document IDs cover the full
// unsigned 64-bit range, so they travel as decimal strings into NUMERIC
// columns.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed document store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (
			id, title, description, document_type, content_cid,
			uploader, owner, verified, verified_by, verified_at, uploaded_at
		)
		VALUES ($1::numeric, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		doc.ID.String(),
		doc.Title,
		doc.Description,
		doc.DocumentType,
		doc.ContentCID,
		doc.Uploader.String(),
		doc.Owner.String(),
		doc.Verified,
		doc.VerifiedBy.String(),
		doc.VerifiedAt,
		doc.UploadedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id domain.DocumentID) (*Document, error) {
	query := `
		SELECT id, title, description, document_type, content_cid,
		       uploader, owner, verified, verified_by, verified_at, uploaded_at
		FROM documents
		WHERE id = $1::numeric
	`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *Postgres) Update(ctx context.Context, doc *Document) error {
	query := `
		UPDATE documents
		SET title = $2, description = $3, document_type = $4, content_cid = $5,
		    uploader = $6, owner = $7, verified = $8, verified_by = $9,
		    verified_at = $10, uploaded_at = $11
		WHERE id = $1::numeric
	`
	res, err := s.db.ExecContext(ctx, query,
		doc.ID.String(),
		doc.Title,
		doc.Description,
		doc.DocumentType,
		doc.ContentCID,
		doc.Uploader.String(),
		doc.Owner.String(),
		doc.Verified,
		doc.VerifiedBy.String(),
		doc.VerifiedAt,
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.DocumentID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1::numeric`, id.String())
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Exists(ctx context.Context, id domain.DocumentID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1::numeric)`, id.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check document existence: %w", err)
	}
	return exists, nil
}

func (s *Postgres) ListByUploader(ctx context.Context, uploader domain.Principal) ([]*Document, error) {
	query := `
		SELECT id, title, description, document_type, content_cid,
		       uploader, owner, verified, verified_by, verified_at, uploaded_at
		FROM documents
		WHERE uploader = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, uploader.String())
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *Postgres) CreateCertificate(ctx context.Context, cert *Certificate) error {
	query := `INSERT INTO certificates (document_id, issued_by, issued_at) VALUES ($1::numeric, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, cert.DocumentID.String(), cert.IssuedBy.String(), cert.IssuedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

func (s *Postgres) GetCertificate(ctx context.Context, id domain.DocumentID) (*Certificate, error) {
	query := `SELECT document_id, issued_by, issued_at FROM certificates WHERE document_id = $1::numeric`
	var (
		idStr, issuedBy string
		cert            Certificate
	)
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&idStr, &issuedBy, &cert.IssuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	docID, err := domain.ParseDocumentID(idStr)
	if err != nil {
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	cert.DocumentID = docID
	cert.IssuedBy = domain.Principal(issuedBy)
	return &cert, nil
}

func (s *Postgres) DeleteCertificate(ctx context.Context, id domain.DocumentID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM certificates WHERE document_id = $1::numeric`, id.String())
	if err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		idStr, uploader, owner, verifiedBy string
		doc                                Document
	)
	err := row.Scan(
		&idStr,
		&doc.Title,
		&doc.Description,
		&doc.DocumentType,
		&doc.ContentCID,
		&uploader,
		&owner,
		&doc.Verified,
		&verifiedBy,
		&doc.VerifiedAt,
		&doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := domain.ParseDocumentID(idStr)
	if err != nil {
		return nil, err
	}
	doc.ID = id
	doc.Uploader = domain.Principal(uploader)
	doc.Owner = domain.Principal(owner)
	doc.VerifiedBy = domain.Principal(verifiedBy)
	return &doc, nil
}
