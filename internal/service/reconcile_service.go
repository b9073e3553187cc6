package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/observability"
	"github.com/kumar-pranav/dojotrack-api/internal/repository"
	"github.com/kumar-pranav/dojotrack-api/internal/streak"
)

// Reconciler corrects cached streak counters against the full attendance
// history. Stored values are never trusted as ground truth.
type Reconciler interface {
	Reconcile(ctx context.Context, students []models.Student, logs []models.DailyLog) []models.Student
}

type reconciler struct {
	roster repository.RosterRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewReconciler constructs the streak reconciler.
func NewReconciler(roster repository.RosterRepository, logger zerolog.Logger) Reconciler {
	return &reconciler{
		roster: roster,
		logger: logger.With().Str("component", "reconciler").Logger(),
		now:    time.Now,
	}
}

// Reconcile recomputes every student's streak from the given history and
// returns corrected copies immediately. Divergent stored values are fixed
// with a single atomic batch write; a failed batch is logged and surfaced
// to metrics but the in-memory corrections stand, so callers always see
// the derived value. Calling twice with unchanged history issues no second
// batch.
func (r *reconciler) Reconcile(ctx context.Context, students []models.Student, logs []models.DailyLog) []models.Student {
	if len(students) == 0 {
		return students
	}

	today := r.now()
	corrected := make([]models.Student, len(students))
	copy(corrected, students)

	pending := make(map[string]int)
	for i := range corrected {
		attended := attendedDates(corrected[i].ID, logs)
		derived := streak.Calculate(attended, today)
		if derived != corrected[i].CurrentStreak {
			pending[corrected[i].ID] = derived
			corrected[i].CurrentStreak = derived
		}
	}

	if len(pending) == 0 {
		return corrected
	}

	if err := r.roster.UpdateStreaks(ctx, pending); err != nil {
		r.logger.Error().Err(err).Int("count", len(pending)).Msg("failed to persist streak corrections")
		return corrected
	}

	observability.StreakCorrections().Add(float64(len(pending)))
	r.logger.Info().Int("count", len(pending)).Msg("corrected stored streaks")
	return corrected
}

// attendedDates collects the calendar days on which the student was marked
// present or late.
func attendedDates(studentID string, logs []models.DailyLog) []time.Time {
	var dates []time.Time
	for _, log := range logs {
		if status, ok := log.Attendance[studentID]; ok && status.CountsForStreak() {
			if day, err := time.ParseInLocation(models.DateKeyLayout, log.DateKey, time.Local); err == nil {
				dates = append(dates, day)
			}
		}
	}
	return dates
}
