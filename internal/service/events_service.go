package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/kumar-pranav/dojotrack-api/internal/middleware"
)

const (
	subjectAttendanceCommitted = "dojotrack.attendance.committed"
	subjectAttendanceFinalized = "dojotrack.attendance.finalized"
)

// EventPublisher fans attendance lifecycle events out to downstream
// consumers (reminder scheduling, reporting). Publishing is best-effort:
// a missing broker or failed publish never fails the caller.
type EventPublisher interface {
	AttendanceCommitted(ctx context.Context, dateKey string, marked int)
	AttendanceFinalized(ctx context.Context, dateKey string, lateCount int)
}

type attendanceEvent struct {
	DateKey       string    `json:"date_key"`
	Marked        int       `json:"marked,omitempty"`
	LateCount     int       `json:"late_count,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	SentAt        time.Time `json:"sent_at"`
}

type eventPublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewEventPublisher constructs a NATS-backed publisher. conn may be nil when
// no broker is configured; every publish then becomes a no-op.
func NewEventPublisher(conn *nats.Conn, logger zerolog.Logger) EventPublisher {
	return &eventPublisher{
		conn:   conn,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *eventPublisher) AttendanceCommitted(ctx context.Context, dateKey string, marked int) {
	p.publish(ctx, subjectAttendanceCommitted, attendanceEvent{DateKey: dateKey, Marked: marked})
}

func (p *eventPublisher) AttendanceFinalized(ctx context.Context, dateKey string, lateCount int) {
	p.publish(ctx, subjectAttendanceFinalized, attendanceEvent{DateKey: dateKey, LateCount: lateCount})
}

func (p *eventPublisher) publish(ctx context.Context, subject string, event attendanceEvent) {
	if p.conn == nil {
		return
	}

	event.SentAt = time.Now()
	event.CorrelationID = middleware.CorrelationIDFromContext(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("subject", subject).Msg("failed to encode event")
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}
