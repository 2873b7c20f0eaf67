package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"voxlab/internal/researcher"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

// PostgresStore persists accounts in the researchers table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const researcherColumns = `id, email, name, password_hash, created_at, last_login_at`

func (s *PostgresStore) Create(ctx context.Context, r *researcher.Researcher) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO researchers (`+researcherColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.UUID(r.ID), r.Email, r.Name, r.PasswordHash, r.CreatedAt, r.LastLoginAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert researcher: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, rid id.ResearcherID) (*researcher.Researcher, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+researcherColumns+` FROM researchers WHERE id = $1`, uuid.UUID(rid))
	return scanResearcher(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*researcher.Researcher, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+researcherColumns+` FROM researchers WHERE lower(email) = lower($1)`, email)
	return scanResearcher(row)
}

func (s *PostgresStore) RecordLogin(ctx context.Context, rid id.ResearcherID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE researchers SET last_login_at = now() WHERE id = $1`, uuid.UUID(rid))
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanResearcher(row pgx.Row) (*researcher.Researcher, error) {
	var (
		r   researcher.Researcher
		rid uuid.UUID
	)
	err := row.Scan(&rid, &r.Email, &r.Name, &r.PasswordHash, &r.CreatedAt, &r.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan researcher: %w", err)
	}
	r.ID = id.ResearcherID(rid)
	return &r, nil
}
