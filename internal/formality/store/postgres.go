package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"voxlab/internal/formality"
	id "voxlab/pkg/domain"
	"voxlab/pkg/platform/sentinel"
)

// PostgresStore persists calculations in the formality_calculations table.
// Structured fields (breakdowns, tokens, per-turn results) are stored as
// jsonb; the table has no UPDATE path by design.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const calcColumns = `id, created_at, f_score, total_tokens, interpretation,
	interpretation_label, category_data, formula_breakdown, tokens_data,
	original_transcript, call_id, participant_id, ai_only_mode, per_turn_mode,
	per_turn_results, average_turn_score, notes`

func (s *PostgresStore) Create(ctx context.Context, calc *formality.Calculation) error {
	categoryData, err := json.Marshal(calc.CategoryData)
	if err != nil {
		return fmt.Errorf("marshal category data: %w", err)
	}
	formulaBreakdown, err := json.Marshal(calc.FormulaBreakdown)
	if err != nil {
		return fmt.Errorf("marshal formula breakdown: %w", err)
	}
	var tokensData []byte
	if calc.TokensData != nil {
		if tokensData, err = json.Marshal(calc.TokensData); err != nil {
			return fmt.Errorf("marshal tokens: %w", err)
		}
	}
	var perTurn []byte
	if calc.PerTurnResults != nil {
		if perTurn, err = json.Marshal(calc.PerTurnResults); err != nil {
			return fmt.Errorf("marshal per-turn results: %w", err)
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO formality_calculations (`+calcColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		uuid.UUID(calc.ID), calc.CreatedAt, calc.FScore, calc.TotalTokens,
		calc.Interpretation, calc.InterpretationLabel, categoryData,
		formulaBreakdown, tokensData, calc.OriginalTranscript,
		nullString(string(calc.CallID)), nullString(string(calc.ParticipantID)),
		calc.AIOnlyMode, calc.PerTurnMode, perTurn, calc.AverageTurnScore,
		calc.Notes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, calcID id.CalculationID) (*formality.Calculation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+calcColumns+` FROM formality_calculations WHERE id = $1`,
		uuid.UUID(calcID))
	calc, err := scanCalculation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find calculation: %w", err)
	}
	return calc, nil
}

func (s *PostgresStore) ListByCall(ctx context.Context, callID id.CallID) ([]*formality.Calculation, error) {
	return s.list(ctx,
		`SELECT `+calcColumns+` FROM formality_calculations
		 WHERE call_id = $1 ORDER BY created_at DESC`, string(callID))
}

func (s *PostgresStore) ListByParticipant(ctx context.Context, participantID id.ParticipantID) ([]*formality.Calculation, error) {
	return s.list(ctx,
		`SELECT `+calcColumns+` FROM formality_calculations
		 WHERE participant_id = $1 ORDER BY created_at DESC`, string(participantID))
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*formality.Calculation, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.list(ctx,
		`SELECT `+calcColumns+` FROM formality_calculations
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*formality.Calculation, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	var out []*formality.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		out = append(out, calc)
	}
	return out, rows.Err()
}

func scanCalculation(row pgx.Row) (*formality.Calculation, error) {
	var (
		calc             formality.Calculation
		uid              uuid.UUID
		createdAt        time.Time
		categoryData     []byte
		formulaBreakdown []byte
		tokensData       []byte
		perTurn          []byte
		callID           *string
		participantID    *string
	)
	err := row.Scan(&uid, &createdAt, &calc.FScore, &calc.TotalTokens,
		&calc.Interpretation, &calc.InterpretationLabel, &categoryData,
		&formulaBreakdown, &tokensData, &calc.OriginalTranscript,
		&callID, &participantID, &calc.AIOnlyMode, &calc.PerTurnMode,
		&perTurn, &calc.AverageTurnScore, &calc.Notes)
	if err != nil {
		return nil, err
	}

	calc.ID = id.CalculationID(uid)
	calc.CreatedAt = createdAt
	if callID != nil {
		calc.CallID = id.CallID(*callID)
	}
	if participantID != nil {
		calc.ParticipantID = id.ParticipantID(*participantID)
	}
	if err := json.Unmarshal(categoryData, &calc.CategoryData); err != nil {
		return nil, fmt.Errorf("unmarshal category data: %w", err)
	}
	if err := json.Unmarshal(formulaBreakdown, &calc.FormulaBreakdown); err != nil {
		return nil, fmt.Errorf("unmarshal formula breakdown: %w", err)
	}
	if tokensData != nil {
		if err := json.Unmarshal(tokensData, &calc.TokensData); err != nil {
			return nil, fmt.Errorf("unmarshal tokens: %w", err)
		}
	}
	if perTurn != nil {
		if err := json.Unmarshal(perTurn, &calc.PerTurnResults); err != nil {
			return nil, fmt.Errorf("unmarshal per-turn results: %w", err)
		}
	}
	return &calc, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
