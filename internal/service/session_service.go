package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/observability"
	"github.com/kumar-pranav/dojotrack-api/internal/repository"
)

// defaultFocus is written when a session auto-commits without an explicit
// focus note; the detail view can edit it afterwards.
const defaultFocus = "Regular Class"

var (
	// ErrSessionNotLoaded indicates an operation before the first Load.
	ErrSessionNotLoaded = errors.New("session not loaded")
	// ErrSessionFinalized indicates a mark against a finalized day.
	ErrSessionFinalized = errors.New("attendance for today is finalized")
	// ErrNotQueueHead indicates a mark for a student who is not the active card.
	ErrNotQueueHead = errors.New("student is not at the head of the queue")
	// ErrUnknownStatus indicates a status outside the closed set.
	ErrUnknownStatus = errors.New("unknown attendance status")
)

// SessionService owns the in-memory state of today's swipe session: the
// remaining queue, the marked map and the undo stack. There is exactly one
// snapshot at a time, replaced wholesale on each transition; store writes
// are dispatched fire-and-forget and never block the next user action.
type SessionService interface {
	Load(ctx context.Context) dto.SessionResponse
	Snapshot() dto.SessionResponse
	Mark(ctx context.Context, studentID string, status models.AttendanceStatus) (dto.SessionResponse, error)
	Undo(ctx context.Context) dto.SessionResponse
	Commit(ctx context.Context) error
}

type markAction struct {
	student models.Student
	status  models.AttendanceStatus
}

// sessionState is an immutable snapshot of the session. Mutating operations
// build a fresh state and swap the pointer under the service mutex.
type sessionState struct {
	dateKey    string
	queue      []models.Student
	marked     models.AttendanceMap
	undo       []markAction
	totalCount int
	finalized  bool
	errMsg     string
}

type sessionService struct {
	roster     repository.RosterRepository
	logs       repository.LogRepository
	reconciler Reconciler
	events     EventPublisher
	logger     zerolog.Logger
	tracer     trace.Tracer

	mu    sync.Mutex
	state *sessionState

	now      func() time.Time
	dispatch func(fn func())
}

// NewSessionService constructs the attendance session engine.
func NewSessionService(roster repository.RosterRepository, logs repository.LogRepository, reconciler Reconciler, events EventPublisher, logger zerolog.Logger) SessionService {
	return &sessionService{
		roster:     roster,
		logs:       logs,
		reconciler: reconciler,
		events:     events,
		logger:     logger.With().Str("component", "session_service").Logger(),
		tracer:     otel.Tracer("github.com/kumar-pranav/dojotrack-api/internal/service/session"),
		now:        time.Now,
		dispatch:   func(fn func()) { go fn() },
	}
}

// Load rebuilds the session from the store's last durable state: active
// roster (streaks reconciled against full history), today's log if any, and
// the remaining queue. Read failures degrade to an empty session with an
// error string rather than failing the call.
func (s *sessionService) Load(ctx context.Context) dto.SessionResponse {
	dateKey := models.DateKey(s.now())
	state := &sessionState{
		dateKey: dateKey,
		marked:  models.AttendanceMap{},
	}

	students, err := s.roster.GetActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch roster")
		state.errMsg = "failed to load roster"
		students = nil
	}

	history, err := s.logs.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch attendance history")
		state.errMsg = "failed to load attendance history"
		history = nil
	}

	students = s.reconciler.Reconcile(ctx, students, history)

	todayLog, err := s.logs.GetByKey(ctx, dateKey)
	if err != nil {
		s.logger.Error().Err(err).Str("date", dateKey).Msg("failed to fetch today's log")
		state.errMsg = "failed to load today's log"
		todayLog = nil
	}

	if todayLog != nil {
		state.finalized = todayLog.Finalized
		for id, status := range todayLog.Attendance {
			state.marked[id] = status
		}
	}

	state.totalCount = len(students)
	state.queue = make([]models.Student, 0, len(students))
	for _, student := range students {
		if _, alreadyMarked := state.marked[student.ID]; !alreadyMarked {
			state.queue = append(state.queue, student)
		}
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	return s.respond(state)
}

// Snapshot returns the current session view without touching the store.
func (s *sessionService) Snapshot() dto.SessionResponse {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state == nil {
		return dto.SessionResponse{Error: ErrSessionNotLoaded.Error()}
	}
	return s.respond(state)
}

// Mark records the status for the student at the head of the queue. The
// in-memory transition is synchronous; the per-student store write is
// dispatched in the background. Emptying the queue triggers an async commit.
func (s *sessionService) Mark(ctx context.Context, studentID string, status models.AttendanceStatus) (dto.SessionResponse, error) {
	if !status.Valid() {
		return dto.SessionResponse{}, ErrUnknownStatus
	}

	s.mu.Lock()
	state := s.state
	if state == nil {
		s.mu.Unlock()
		return dto.SessionResponse{}, ErrSessionNotLoaded
	}
	if state.finalized {
		s.mu.Unlock()
		return s.respond(state), ErrSessionFinalized
	}
	if len(state.queue) == 0 || state.queue[0].ID != studentID {
		s.mu.Unlock()
		return s.respond(state), ErrNotQueueHead
	}

	head := state.queue[0]
	next := &sessionState{
		dateKey:    state.dateKey,
		queue:      append([]models.Student{}, state.queue[1:]...),
		marked:     cloneMarked(state.marked),
		undo:       append(append([]markAction{}, state.undo...), markAction{student: head, status: status}),
		totalCount: state.totalCount,
		finalized:  state.finalized,
		errMsg:     state.errMsg,
	}
	next.marked[head.ID] = status
	s.state = next
	queueEmpty := len(next.queue) == 0
	s.mu.Unlock()

	observability.SessionMarks().WithLabelValues(string(status)).Inc()

	dateKey := next.dateKey
	s.dispatch(func() {
		if err := s.logs.SetStatus(context.WithoutCancel(ctx), dateKey, head.ID, status); err != nil {
			s.logger.Error().Err(err).Str("student_id", head.ID).Msg("failed to persist mark")
			s.setError("failed to save attendance mark")
		}
	})

	if queueEmpty {
		s.dispatch(func() {
			if err := s.Commit(context.WithoutCancel(ctx)); err != nil {
				s.logger.Error().Err(err).Msg("auto-commit failed")
			}
		})
	}

	return s.respond(next), nil
}

// Undo pops the most recent mark and puts the student back at the FRONT of
// the queue: last marked is first re-presented. A committed write for that
// student is not retracted; the next mark or commit overwrites it.
func (s *sessionService) Undo(ctx context.Context) dto.SessionResponse {
	s.mu.Lock()
	state := s.state
	if state == nil {
		s.mu.Unlock()
		return dto.SessionResponse{Error: ErrSessionNotLoaded.Error()}
	}
	if len(state.undo) == 0 {
		s.mu.Unlock()
		return s.respond(state)
	}

	last := state.undo[len(state.undo)-1]
	next := &sessionState{
		dateKey:    state.dateKey,
		queue:      append([]models.Student{last.student}, state.queue...),
		marked:     cloneMarked(state.marked),
		undo:       append([]markAction{}, state.undo[:len(state.undo)-1]...),
		totalCount: state.totalCount,
		finalized:  state.finalized,
		errMsg:     state.errMsg,
	}
	delete(next.marked, last.student.ID)
	s.state = next
	s.mu.Unlock()

	observability.SessionUndos().Inc()

	return s.respond(next)
}

// Commit upserts today's log with the full marked map (merge semantics, the
// finalized latch is untouched) and re-reconciles streaks for the updated
// history as one batch. No retries: on failure local state stays
// authoritative and the error surfaces on the session view.
func (s *sessionService) Commit(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "session.commit")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.CommitLatency().Observe(time.Since(start).Seconds())
	}()

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == nil {
		return ErrSessionNotLoaded
	}
	if state.finalized {
		return ErrSessionFinalized
	}

	span.SetAttributes(
		attribute.String("session.date", state.dateKey),
		attribute.Int("session.marked", len(state.marked)),
	)

	patch := repository.LogPatch{
		Date:       s.now(),
		Focus:      defaultFocus,
		Attendance: cloneMarked(state.marked),
	}
	if err := s.logs.MergeSet(ctx, state.dateKey, patch); err != nil {
		s.logger.Error().Err(err).Str("date", state.dateKey).Msg("failed to commit attendance")
		s.setError("failed to save attendance")
		return err
	}

	s.events.AttendanceCommitted(ctx, state.dateKey, len(state.marked))
	s.logger.Info().Str("date", state.dateKey).Int("marked", len(state.marked)).Msg("attendance committed")

	// History changed; bring stored streaks back in line with it.
	students, err := s.roster.GetActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch roster for post-commit reconciliation")
		return nil
	}
	history, err := s.logs.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch history for post-commit reconciliation")
		return nil
	}
	s.reconciler.Reconcile(ctx, students, history)

	return nil
}

func (s *sessionService) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	next := *s.state
	next.errMsg = msg
	s.state = &next
}

func (s *sessionService) respond(state *sessionState) dto.SessionResponse {
	progress := 0.0
	if state.totalCount > 0 {
		progress = float64(state.totalCount-len(state.queue)) / float64(state.totalCount)
	}
	return dto.SessionResponse{
		DateKey:    state.dateKey,
		Queue:      append([]models.Student{}, state.queue...),
		Marked:     cloneMarked(state.marked),
		TotalCount: state.totalCount,
		Progress:   progress,
		Finalized:  state.finalized,
		Error:      state.errMsg,
	}
}

func cloneMarked(marked models.AttendanceMap) models.AttendanceMap {
	clone := make(models.AttendanceMap, len(marked))
	for id, status := range marked {
		clone[id] = status
	}
	return clone
}
