// Package kafka publishes audit events to a Kafka topic so the research and
// operations trails survive process restarts and can feed external tooling.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"voxlab/pkg/platform/audit"
)

// Store appends audit events as JSON records to a Kafka topic. It satisfies
// the publisher.Store interface.
type Store struct {
	client *kgo.Client
	topic  string
}

// New dials the given seed brokers. The topic must already exist; this store
// does not manage topic lifecycle.
func New(brokers []string, topic string) (*Store, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Store{client: client, topic: topic}, nil
}

type record struct {
	Category      string `json:"category"`
	Timestamp     string `json:"timestamp"`
	ResearcherID  string `json:"researcher_id,omitempty"`
	ParticipantID string `json:"participant_id,omitempty"`
	Action        string `json:"action"`
	Subject       string `json:"subject,omitempty"`
	Detail        string `json:"detail,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var researcherID string
	if !event.ResearcherID.IsNil() {
		researcherID = event.ResearcherID.String()
	}
	payload, err := json.Marshal(record{
		Category:      string(event.Category),
		Timestamp:     event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		ResearcherID:  researcherID,
		ParticipantID: event.ParticipantID.String(),
		Action:        event.Action,
		Subject:       event.Subject,
		Detail:        event.Detail,
		RequestID:     event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	// Keyed by action so per-action ordering is preserved within a partition.
	rec := &kgo.Record{Key: []byte(event.Action), Value: payload}
	if err := s.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes buffered records and releases the client.
func (s *Store) Close() {
	s.client.Close()
}
