package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"verifi/pkg/domain"
)

// Postgres persists the event log. seq is a BIGSERIAL, so commit order is
// assigned by the database and written back into the event.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed event log.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	var docID any
	if event.DocumentID != nil {
		docID = event.DocumentID.String()
	}
	query := `
		INSERT INTO events (id, ts, action, actor, subject, requester, role, alias, document_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10)
		RETURNING seq
	`
	err := s.db.QueryRowContext(ctx, query,
		event.ID,
		event.Timestamp,
		string(event.Action),
		event.Actor.String(),
		event.Subject.String(),
		event.Requester.String(),
		event.Role.String(),
		event.Alias.String(),
		docID,
		event.Detail,
	).Scan(&event.Seq)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *Postgres) ListSince(ctx context.Context, since uint64, limit int) ([]Event, error) {
	query := `
		SELECT seq, id, ts, action, actor, subject, requester, role, alias, document_id, detail
		FROM events
		WHERE seq > $1
		ORDER BY seq
	`
	args := []any{int64(since)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event                                           Event
			action, actor, subject, requester, role, aliasV string
			docID                                           sql.NullString
		)
		err := rows.Scan(
			&event.Seq,
			&event.ID,
			&event.Timestamp,
			&action,
			&actor,
			&subject,
			&requester,
			&role,
			&aliasV,
			&docID,
			&event.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Action = Action(action)
		event.Actor = domain.Principal(actor)
		event.Subject = domain.Principal(subject)
		event.Requester = domain.Principal(requester)
		event.Role = domain.Role(role)
		event.Alias = domain.Alias(aliasV)
		if docID.Valid {
			id, err := domain.ParseDocumentID(docID.String)
			if err != nil {
				return nil, fmt.Errorf("scan event document id: %w", err)
			}
			event.DocumentID = &id
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (s *Postgres) LastSeq(ctx context.Context) (uint64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM events`).Scan(&seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return uint64(seq), nil
}
