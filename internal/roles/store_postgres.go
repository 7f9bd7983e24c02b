package roles

import (
	"context"
	"database/sql"
	"fmt"

	"verifi/pkg/domain"
)

// Postgres persists role membership in the role_members table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed role store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Grant(ctx context.Context, role domain.Role, principal domain.Principal) error {
	query := `
		INSERT INTO role_members (role, principal)
		VALUES ($1, $2)
		ON CONFLICT (role, principal) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, role.String(), principal.String()); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

func (s *Postgres) Revoke(ctx context.Context, role domain.Role, principal domain.Principal) error {
	query := `DELETE FROM role_members WHERE role = $1 AND principal = $2`
	if _, err := s.db.ExecContext(ctx, query, role.String(), principal.String()); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}

func (s *Postgres) Has(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM role_members WHERE role = $1 AND principal = $2)`
	var held bool
	if err := s.db.QueryRowContext(ctx, query, role.String(), principal.String()).Scan(&held); err != nil {
		return false, fmt.Errorf("check role membership: %w", err)
	}
	return held, nil
}

func (s *Postgres) ListMembers(ctx context.Context, role domain.Role) ([]domain.Principal, error) {
	query := `SELECT principal FROM role_members WHERE role = $1 ORDER BY principal`
	rows, err := s.db.QueryContext(ctx, query, role.String())
	if err != nil {
		return nil, fmt.Errorf("list role members: %w", err)
	}
	defer rows.Close()

	var members []domain.Principal
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan role member: %w", err)
		}
		members = append(members, domain.Principal(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role members: %w", err)
	}
	return members, nil
}
