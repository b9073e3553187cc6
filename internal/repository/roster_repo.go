package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

// RosterRepository provides access to the student roster. Students are never
// hard-deleted; SoftDelete clears the active flag so dropouts disappear from
// the queue but keep their history.
type RosterRepository interface {
	GetActive(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	Upsert(ctx context.Context, student *models.Student) (string, error)
	SoftDelete(ctx context.Context, id string) error
	UpdateStreaks(ctx context.Context, streaks map[string]int) error
}

type rosterRepository struct {
	db *gorm.DB
}

// NewRosterRepository constructs the roster repository.
func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) GetActive(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("LOWER(name) ASC, id ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *rosterRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *rosterRepository) Upsert(ctx context.Context, student *models.Student) (string, error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Save(student).Error; err != nil {
		return "", err
	}
	return student.ID, nil
}

func (r *rosterRepository) SoftDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStreaks applies single-field streak corrections as one atomic batch:
// either every correction lands or none do.
func (r *rosterRepository) UpdateStreaks(ctx context.Context, streaks map[string]int) error {
	if len(streaks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, value := range streaks {
			if err := tx.Model(&models.Student{}).
				Where("id = ?", id).
				Update("current_streak", value).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
