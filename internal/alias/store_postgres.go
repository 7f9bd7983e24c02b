package alias

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

// Postgres persists alias bindings in the aliases table. The primary key
// enforces write-once.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed alias store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Bind(ctx context.Context, entry Entry) error {
	query := `INSERT INTO aliases (alias, owner, bound_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, entry.Alias.String(), entry.Owner.String(), entry.BoundAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("bind alias: %w", err)
	}
	return nil
}

func (s *Postgres) Resolve(ctx context.Context, a domain.Alias) (Entry, error) {
	query := `SELECT alias, owner, bound_at FROM aliases WHERE alias = $1`
	var (
		alias, owner string
		entry        Entry
	)
	err := s.db.QueryRowContext(ctx, query, a.String()).Scan(&alias, &owner, &entry.BoundAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, sentinel.ErrNotFound
		}
		return Entry{}, fmt.Errorf("resolve alias: %w", err)
	}
	entry.Alias = domain.Alias(alias)
	entry.Owner = domain.Principal(owner)
	return entry, nil
}
