// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them; services read them without
// importing net/http. Tests inject fixed values (notably WithTime) so service
// logic stays deterministic.
package requestcontext

import (
	"context"
	"time"

	id "voxlab/pkg/domain"
)

type (
	researcherIDKey  struct{}
	participantIDKey struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
)

// ResearcherID retrieves the authenticated researcher ID from the context.
// Returns the zero value if not set.
func ResearcherID(ctx context.Context) id.ResearcherID {
	if v, ok := ctx.Value(researcherIDKey{}).(id.ResearcherID); ok {
		return v
	}
	return id.ResearcherID{}
}

// WithResearcherID injects a researcher ID into the context.
func WithResearcherID(ctx context.Context, rid id.ResearcherID) context.Context {
	return context.WithValue(ctx, researcherIDKey{}, rid)
}

// ParticipantID retrieves the participant ID bound to the request, if any.
func ParticipantID(ctx context.Context) id.ParticipantID {
	if v, ok := ctx.Value(participantIDKey{}).(id.ParticipantID); ok {
		return v
	}
	return ""
}

// WithParticipantID injects a participant ID into the context.
func WithParticipantID(ctx context.Context, pid id.ParticipantID) context.Context {
	return context.WithValue(ctx, participantIDKey{}, pid)
}

// RequestID retrieves the correlation ID assigned by middleware.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request time if one was injected, else wall-clock time.
// Services call this instead of time.Now so tests can pin the clock.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return v
	}
	return time.Now()
}

// WithTime pins the request time in the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
