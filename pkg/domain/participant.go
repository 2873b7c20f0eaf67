package domain

import dErrors "voxlab/pkg/domain-errors"

// ParticipantID identifies a study participant. Real participant identifiers
// are always exactly ParticipantIDLength characters; researcher test sessions
// use free-form labels and must be excluded from every dashboard total.
// IsParticipantCall in the pipeline module and the experiment service both
// lean on this single definition.
type ParticipantID string

// ParticipantIDLength is the exact length of a real participant identifier.
const ParticipantIDLength = 8

// IsParticipant reports whether the identifier denotes a real participant
// rather than an internal test session.
func (p ParticipantID) IsParticipant() bool {
	return len(p) == ParticipantIDLength
}

func (p ParticipantID) String() string { return string(p) }

// ParseParticipantID validates external input as a real participant ID.
func ParseParticipantID(s string) (ParticipantID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "participant id cannot be empty")
	}
	p := ParticipantID(s)
	if !p.IsParticipant() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "participant id must be exactly %d characters", ParticipantIDLength)
	}
	return p, nil
}

// CallID identifies a voice-assistant call in the external call provider.
// Provider IDs are opaque strings, not UUIDs.
type CallID string

func (c CallID) String() string { return string(c) }
