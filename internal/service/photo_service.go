package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/observability"
	"github.com/kumar-pranav/dojotrack-api/internal/repository"
)

var (
	// ErrPhotoTooLarge indicates the upload exceeded the configured limit.
	ErrPhotoTooLarge = errors.New("photo exceeds maximum allowed size")
	// ErrPhotoTypeNotAllowed indicates the payload is not an image.
	ErrPhotoTypeNotAllowed = errors.New("file type not allowed")
	// ErrPhotoNotFound indicates no photo has been uploaded yet.
	ErrPhotoNotFound = errors.New("photo not found")
)

// PhotoStorage abstracts the cloud destination for profile photos.
type PhotoStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// PhotoService validates and stores instructor profile photos.
type PhotoService interface {
	Upload(ctx context.Context, ownerID string, file *multipart.FileHeader) (dto.PhotoResponse, error)
	Latest(ctx context.Context, ownerID string) (dto.PhotoResponse, error)
}

type photoService struct {
	storage PhotoStorage
	repo    repository.PhotoRepository
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewPhotoService constructs a photo service.
func NewPhotoService(storage PhotoStorage, repo repository.PhotoRepository, maxSizeMB int, logger zerolog.Logger) PhotoService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &photoService{
		storage: storage,
		repo:    repo,
		logger:  logger.With().Str("component", "photo_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/kumar-pranav/dojotrack-api/internal/service/photo"),
	}
}

func (s *photoService) Upload(ctx context.Context, ownerID string, file *multipart.FileHeader) (dto.PhotoResponse, error) {
	ctx, span := s.tracer.Start(ctx, "photo.upload")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.PhotoResponse{}, err
	}

	span.SetAttributes(
		attribute.String("photo.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("photo.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrPhotoTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.PhotoResponse{}, ErrPhotoTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return dto.PhotoResponse{}, err
	}
	defer src.Close()

	payload, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return dto.PhotoResponse{}, err
	}
	if int64(len(payload)) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return dto.PhotoResponse{}, ErrPhotoTooLarge
	}

	detected := mimetype.Detect(payload)
	if !strings.HasPrefix(detected.String(), "image/") {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrPhotoTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.PhotoResponse{}, ErrPhotoTypeNotAllowed
	}

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.PhotoResponse{}, err
	}

	record := models.ProfilePhoto{
		OwnerID:   ownerID,
		FileName:  file.Filename,
		URL:       url,
		MimeType:  detected.String(),
		SizeBytes: int64(len(payload)),
		Metadata: datatypes.JSONMap{
			"extension": detected.Extension(),
		},
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		// The asset is already stored; surface the metadata failure but keep
		// the URL usable.
		s.logger.Error().Err(err).Msg("failed to persist photo record")
		return dto.PhotoResponse{}, err
	}

	s.logger.Info().Str("owner_id", ownerID).Str("url", url).Msg("profile photo uploaded")

	return dto.PhotoResponse{
		ID:        record.ID,
		FileName:  record.FileName,
		URL:       record.URL,
		MimeType:  record.MimeType,
		SizeBytes: record.SizeBytes,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (s *photoService) Latest(ctx context.Context, ownerID string) (dto.PhotoResponse, error) {
	record, err := s.repo.LatestForOwner(ctx, ownerID)
	if err != nil {
		return dto.PhotoResponse{}, err
	}
	if record == nil {
		return dto.PhotoResponse{}, ErrPhotoNotFound
	}
	return dto.PhotoResponse{
		ID:        record.ID,
		FileName:  record.FileName,
		URL:       record.URL,
		MimeType:  record.MimeType,
		SizeBytes: record.SizeBytes,
		CreatedAt: record.CreatedAt,
	}, nil
}
