package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"voxlab/internal/experiment"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

// PostgresStore persists responses in the experiment_responses table.
// Demographics and answers are jsonb; participant_id carries a unique index
// so a participant gets exactly one row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const responseColumns = `id, participant_id, batch_label, step, consented_at,
	demographics, call_id, answers, completed_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, resp *experiment.Response) error {
	demographics, answers, err := marshalResponseFields(resp)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO experiment_responses (`+responseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		uuid.UUID(resp.ID), string(resp.ParticipantID), nullStr(resp.BatchLabel),
		string(resp.Step), resp.ConsentedAt, demographics,
		nullStr(string(resp.CallID)), answers, resp.CompletedAt,
		resp.CreatedAt, resp.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, respID id.ResponseID) (*experiment.Response, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM experiment_responses WHERE id = $1`,
		uuid.UUID(respID))
	return scanResponse(row)
}

func (s *PostgresStore) FindByParticipant(ctx context.Context, pid id.ParticipantID) (*experiment.Response, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM experiment_responses WHERE participant_id = $1`,
		string(pid))
	return scanResponse(row)
}

func (s *PostgresStore) Update(ctx context.Context, resp *experiment.Response) error {
	demographics, answers, err := marshalResponseFields(resp)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE experiment_responses
		SET batch_label = $2, step = $3, consented_at = $4, demographics = $5,
		    call_id = $6, answers = $7, completed_at = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(resp.ID), nullStr(resp.BatchLabel), string(resp.Step),
		resp.ConsentedAt, demographics, nullStr(string(resp.CallID)), answers,
		resp.CompletedAt, resp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter experiment.Filter) ([]*experiment.Response, error) {
	query := `SELECT ` + responseColumns + ` FROM experiment_responses WHERE 1=1`
	var args []any
	if filter.BatchLabel != "" {
		args = append(args, filter.BatchLabel)
		query += fmt.Sprintf(" AND batch_label = $%d", len(args))
	}
	if filter.Step != "" {
		args = append(args, string(filter.Step))
		query += fmt.Sprintf(" AND step = $%d", len(args))
	}
	if filter.CompletedOnly {
		query += " AND completed_at IS NOT NULL"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []*experiment.Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) BatchLabels(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT batch_label FROM experiment_responses
		WHERE batch_label IS NOT NULL ORDER BY batch_label`)
	if err != nil {
		return nil, fmt.Errorf("list batch labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan batch label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func marshalResponseFields(resp *experiment.Response) ([]byte, []byte, error) {
	var demographics []byte
	if resp.Demographics != nil {
		b, err := json.Marshal(resp.Demographics)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal demographics: %w", err)
		}
		demographics = b
	}
	var answers []byte
	if resp.Answers != nil {
		b, err := json.Marshal(resp.Answers)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal answers: %w", err)
		}
		answers = b
	}
	return demographics, answers, nil
}

func scanResponse(row pgx.Row) (*experiment.Response, error) {
	var (
		resp         experiment.Response
		respID       uuid.UUID
		pid          string
		batchLabel   *string
		step         string
		demographics []byte
		callID       *string
		answers      []byte
	)
	err := row.Scan(&respID, &pid, &batchLabel, &step, &resp.ConsentedAt,
		&demographics, &callID, &answers, &resp.CompletedAt,
		&resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan response: %w", err)
	}
	resp.ID = id.ResponseID(respID)
	resp.ParticipantID = id.ParticipantID(pid)
	resp.Step = experiment.Step(step)
	if batchLabel != nil {
		resp.BatchLabel = *batchLabel
	}
	if callID != nil {
		resp.CallID = id.CallID(*callID)
	}
	if demographics != nil {
		resp.Demographics = &experiment.Demographics{}
		if err := json.Unmarshal(demographics, resp.Demographics); err != nil {
			return nil, fmt.Errorf("unmarshal demographics: %w", err)
		}
	}
	if answers != nil {
		if err := json.Unmarshal(answers, &resp.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return &resp, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
