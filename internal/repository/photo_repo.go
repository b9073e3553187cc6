package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

// PhotoRepository persists metadata about uploaded profile photos.
type PhotoRepository interface {
	Create(ctx context.Context, record *models.ProfilePhoto) error
	LatestForOwner(ctx context.Context, ownerID string) (*models.ProfilePhoto, error)
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository constructs a repository for photo records.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, record *models.ProfilePhoto) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *photoRepository) LatestForOwner(ctx context.Context, ownerID string) (*models.ProfilePhoto, error) {
	var record models.ProfilePhoto
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
