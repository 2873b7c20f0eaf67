package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voxlab/pkg/platform/sentinel"
)

// PostgresStore persists settings in the experiment_settings table
// (key text primary key, value text).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM experiment_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO experiment_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// IncrementInt bumps an integer-valued setting atomically in one statement,
// so concurrent bumps never read-modify-write each other's value away.
func (s *PostgresStore) IncrementInt(ctx context.Context, key string, initial int) (int, error) {
	var value string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO experiment_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
			SET value = (experiment_settings.value::int + 1)::text
		RETURNING value`,
		key, strconv.Itoa(initial+1)).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment setting %s: %w", key, err)
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not an integer: %w", key, err)
	}
	return parsed, nil
}
