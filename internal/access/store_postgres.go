package access

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

// Postgres persists access requests. The pending index of the memory store
// becomes a partial index on status here; request order is requested_at.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed access store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO access_requests (owner, document_id, requester, status, requested_at, granted_at)
		VALUES ($1, $2::numeric, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		req.Key.Owner.String(),
		req.Key.DocumentID.String(),
		req.Key.Requester.String(),
		string(req.Status),
		req.RequestedAt,
		req.GrantedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create access request: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, key Key) (*Request, error) {
	query := `
		SELECT status, requested_at, granted_at
		FROM access_requests
		WHERE owner = $1 AND document_id = $2::numeric AND requester = $3
	`
	req := &Request{Key: key}
	var status string
	err := s.db.QueryRowContext(ctx, query,
		key.Owner.String(), key.DocumentID.String(), key.Requester.String(),
	).Scan(&status, &req.RequestedAt, &req.GrantedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get access request: %w", err)
	}
	req.Status = Status(status)
	return req, nil
}

func (s *Postgres) Update(ctx context.Context, req *Request) error {
	query := `
		UPDATE access_requests
		SET status = $4, requested_at = $5, granted_at = $6
		WHERE owner = $1 AND document_id = $2::numeric AND requester = $3
	`
	res, err := s.db.ExecContext(ctx, query,
		req.Key.Owner.String(),
		req.Key.DocumentID.String(),
		req.Key.Requester.String(),
		string(req.Status),
		req.RequestedAt,
		req.GrantedAt,
	)
	if err != nil {
		return fmt.Errorf("update access request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update access request: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, key Key) error {
	query := `DELETE FROM access_requests WHERE owner = $1 AND document_id = $2::numeric AND requester = $3`
	res, err := s.db.ExecContext(ctx, query,
		key.Owner.String(), key.DocumentID.String(), key.Requester.String())
	if err != nil {
		return fmt.Errorf("delete access request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete access request: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteByDocument(ctx context.Context, id domain.DocumentID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM access_requests WHERE document_id = $1::numeric`, id.String())
	if err != nil {
		return fmt.Errorf("purge access requests: %w", err)
	}
	return nil
}

func (s *Postgres) PendingRequesters(ctx context.Context, owner domain.Principal, id domain.DocumentID) ([]domain.Principal, error) {
	query := `
		SELECT requester
		FROM access_requests
		WHERE owner = $1 AND document_id = $2::numeric AND status = $3
		ORDER BY requested_at, requester
	`
	rows, err := s.db.QueryContext(ctx, query, owner.String(), id.String(), string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending requesters: %w", err)
	}
	defer rows.Close()

	var waiting []domain.Principal
	for rows.Next() {
		var requester string
		if err := rows.Scan(&requester); err != nil {
			return nil, fmt.Errorf("scan pending requester: %w", err)
		}
		waiting = append(waiting, domain.Principal(requester))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending requesters: %w", err)
	}
	return waiting, nil
}
