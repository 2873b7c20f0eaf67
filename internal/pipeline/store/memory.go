// Package store provides snapshot sources for the pipeline engine: an
// in-memory source for tests and development, and a PostgreSQL source
// reading the production collections.
package store

import (
	"context"
	"sync"

	"voxlab/internal/pipeline/models"
)

// InMemorySource holds snapshot collections in memory. Mutators replace
// whole collections, matching how tests set up backend states.
type InMemorySource struct {
	mu             sync.RWMutex
	calls          []models.Call
	transcriptions []models.Transcription
	metrics        []models.MetricsRecord
	codes          []models.ThematicCode
	scores         []models.EvaluationScore
	queue          []models.QueueItem
}

func NewInMemory() *InMemorySource {
	return &InMemorySource{}
}

func (s *InMemorySource) SetCalls(calls []models.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = calls
}

func (s *InMemorySource) SetTranscriptions(ts []models.Transcription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcriptions = ts
}

func (s *InMemorySource) SetMetrics(ms []models.MetricsRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = ms
}

func (s *InMemorySource) SetThematicCodes(codes []models.ThematicCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = codes
}

func (s *InMemorySource) SetEvaluationScores(scores []models.EvaluationScore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = scores
}

func (s *InMemorySource) SetEvaluationQueue(queue []models.QueueItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = queue
}

func (s *InMemorySource) ListCalls(context.Context) ([]models.Call, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Call(nil), s.calls...), nil
}

func (s *InMemorySource) ListTranscriptions(context.Context) ([]models.Transcription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transcription(nil), s.transcriptions...), nil
}

func (s *InMemorySource) ListMetrics(context.Context) ([]models.MetricsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MetricsRecord(nil), s.metrics...), nil
}

func (s *InMemorySource) ListThematicCodes(context.Context) ([]models.ThematicCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ThematicCode(nil), s.codes...), nil
}

func (s *InMemorySource) ListEvaluationScores(context.Context) ([]models.EvaluationScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EvaluationScore(nil), s.scores...), nil
}

func (s *InMemorySource) ListEvaluationQueue(context.Context) ([]models.QueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.QueueItem(nil), s.queue...), nil
}
