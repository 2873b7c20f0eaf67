package audit

import (
	"context"
	"log/slog"

	"voxlab/pkg/requestcontext"
)

// Emitter is the minimal publishing interface services depend on.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Log records an action both as a structured log line and, when a publisher
// is configured, as an audit event. Nil logger and nil emitter are tolerated
// so services can be constructed bare in tests.
func Log(ctx context.Context, logger *slog.Logger, emitter Emitter, action AuditEvent, subject, detail string) {
	if logger != nil {
		logger.InfoContext(ctx, "audit",
			"action", string(action),
			"subject", subject,
			"detail", detail,
		)
	}
	if emitter == nil {
		return
	}
	event := Event{
		Category:     CategoryFor(action),
		Timestamp:    requestcontext.Now(ctx),
		ResearcherID: requestcontext.ResearcherID(ctx),
		Action:       string(action),
		Subject:      subject,
		Detail:       detail,
		RequestID:    requestcontext.RequestID(ctx),
	}
	if err := emitter.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "audit emit failed", "action", string(action), "error", err)
	}
}
