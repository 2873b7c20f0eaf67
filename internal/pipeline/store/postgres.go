package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voxlab/internal/pipeline/models"
	id "voxlab/pkg/domain"
)

// PostgresSource reads the pipeline collections. Each List method returns
// the typed subset of columns the engine consumes; joins against calls
// happen in the engine, keyed by call ID.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) ListCalls(ctx context.Context) ([]models.Call, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT call_id, participant_id, created_at
		FROM calls`)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	return collect(rows, func(row pgx.Row) (models.Call, error) {
		var (
			c             models.Call
			callID        string
			participantID string
			createdAt     time.Time
		)
		if err := row.Scan(&callID, &participantID, &createdAt); err != nil {
			return c, err
		}
		c.ID = id.CallID(callID)
		c.ParticipantID = id.ParticipantID(participantID)
		c.CreatedAt = createdAt
		return c, nil
	})
}

func (s *PostgresSource) ListTranscriptions(ctx context.Context) ([]models.Transcription, error) {
	rows, err := s.pool.Query(ctx, `SELECT call_id, status FROM call_transcriptions`)
	if err != nil {
		return nil, fmt.Errorf("list transcriptions: %w", err)
	}
	return collect(rows, func(row pgx.Row) (models.Transcription, error) {
		var t models.Transcription
		var callID, state string
		if err := row.Scan(&callID, &state); err != nil {
			return t, err
		}
		t.CallID = id.CallID(callID)
		t.State = models.TranscriptionState(state)
		return t, nil
	})
}

func (s *PostgresSource) ListMetrics(ctx context.Context) ([]models.MetricsRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT call_id, computed_at FROM call_qualitative_metrics`)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return collect(rows, func(row pgx.Row) (models.MetricsRecord, error) {
		var m models.MetricsRecord
		var callID string
		if err := row.Scan(&callID, &m.ComputedAt); err != nil {
			return m, err
		}
		m.CallID = id.CallID(callID)
		return m, nil
	})
}

func (s *PostgresSource) ListThematicCodes(ctx context.Context) ([]models.ThematicCode, error) {
	rows, err := s.pool.Query(ctx, `SELECT call_id, pass, rules_version FROM call_thematic_codes`)
	if err != nil {
		return nil, fmt.Errorf("list thematic codes: %w", err)
	}
	return collect(rows, func(row pgx.Row) (models.ThematicCode, error) {
		var c models.ThematicCode
		var callID, pass string
		if err := row.Scan(&callID, &pass, &c.RulesVersion); err != nil {
			return c, err
		}
		c.CallID = id.CallID(callID)
		c.Pass = models.ThematicPass(pass)
		return c, nil
	})
}

func (s *PostgresSource) ListEvaluationScores(ctx context.Context) ([]models.EvaluationScore, error) {
	rows, err := s.pool.Query(ctx, `SELECT call_id, metric_id FROM vapi_evaluation_scores`)
	if err != nil {
		return nil, fmt.Errorf("list evaluation scores: %w", err)
	}
	return collect(rows, func(row pgx.Row) (models.EvaluationScore, error) {
		var e models.EvaluationScore
		var callID string
		if err := row.Scan(&callID, &e.MetricID); err != nil {
			return e, err
		}
		e.CallID = id.CallID(callID)
		return e, nil
	})
}

func (s *PostgresSource) ListEvaluationQueue(ctx context.Context) ([]models.QueueItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT call_id, metric_id, status FROM vapi_evaluation_queue`)
	if err != nil {
		return nil, fmt.Errorf("list evaluation queue: %w", err)
	}
	return collect(rows, func(row pgx.Row) (models.QueueItem, error) {
		var q models.QueueItem
		var callID, state string
		if err := row.Scan(&callID, &q.MetricID, &state); err != nil {
			return q, err
		}
		q.CallID = id.CallID(callID)
		q.State = models.QueueState(state)
		return q, nil
	})
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
