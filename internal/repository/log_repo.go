package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

// LogPatch carries the fields MergeSet is allowed to touch. The finalized
// latch is deliberately absent: merge writes can never clear it.
type LogPatch struct {
	Date       time.Time
	Focus      string
	Attendance models.AttendanceMap
}

// LogRepository persists daily attendance logs keyed by local calendar date
// ("YYYY-MM-DD"). Missing logs are a valid nil result, not an error.
type LogRepository interface {
	GetByKey(ctx context.Context, dateKey string) (*models.DailyLog, error)
	GetAll(ctx context.Context) ([]models.DailyLog, error)
	ListByMonth(ctx context.Context, monthPrefix string) ([]models.DailyLog, error)
	MergeSet(ctx context.Context, dateKey string, patch LogPatch) error
	SetStatus(ctx context.Context, dateKey, studentID string, status models.AttendanceStatus) error
	Finalize(ctx context.Context, dateKey string) error
	UpdateFocus(ctx context.Context, dateKey, focus string) error
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository constructs the daily log repository.
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) GetByKey(ctx context.Context, dateKey string) (*models.DailyLog, error) {
	var log models.DailyLog
	err := r.db.WithContext(ctx).First(&log, "date_key = ?", dateKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *logRepository) GetAll(ctx context.Context) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	if err := r.db.WithContext(ctx).Order("date_key ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListByMonth returns the logs whose date key starts with monthPrefix
// ("YYYY-MM"). The key format makes month queries a plain prefix match.
func (r *logRepository) ListByMonth(ctx context.Context, monthPrefix string) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := r.db.WithContext(ctx).
		Where("date_key LIKE ?", monthPrefix+"%").
		Order("date_key ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// MergeSet upserts the log for dateKey, updating only date, focus and the
// attendance map. Unrelated fields on an existing document survive.
func (r *logRepository) MergeSet(ctx context.Context, dateKey string, patch LogPatch) error {
	attendance := patch.Attendance
	if attendance == nil {
		attendance = models.AttendanceMap{}
	}
	log := models.DailyLog{
		DateKey:    dateKey,
		Date:       patch.Date,
		Focus:      patch.Focus,
		Attendance: attendance,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "focus", "attendance"}),
	}).Create(&log).Error
}

// SetStatus records a single student's status for dateKey, creating the log
// on first mark of the day. Only the one attendance entry is rewritten, so
// a concurrent full-document merge loses at most this key.
func (r *logRepository) SetStatus(ctx context.Context, dateKey, studentID string, status models.AttendanceStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var log models.DailyLog
		err := tx.First(&log, "date_key = ?", dateKey).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log = models.DailyLog{
				DateKey:    dateKey,
				Date:       time.Now(),
				Attendance: models.AttendanceMap{studentID: status},
			}
			return tx.Create(&log).Error
		}
		if err != nil {
			return err
		}
		if log.Attendance == nil {
			log.Attendance = models.AttendanceMap{}
		}
		log.Attendance[studentID] = status
		return tx.Model(&models.DailyLog{}).
			Where("date_key = ?", dateKey).
			Update("attendance", log.Attendance).Error
	})
}

// Finalize flips the one-way finalized latch. It never clears the flag.
func (r *logRepository) Finalize(ctx context.Context, dateKey string) error {
	result := r.db.WithContext(ctx).
		Model(&models.DailyLog{}).
		Where("date_key = ?", dateKey).
		Update("finalized", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *logRepository) UpdateFocus(ctx context.Context, dateKey, focus string) error {
	result := r.db.WithContext(ctx).
		Model(&models.DailyLog{}).
		Where("date_key = ?", dateKey).
		Update("focus", focus)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
