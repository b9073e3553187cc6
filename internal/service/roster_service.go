package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/repository"
)

// ErrStudentNotFound indicates a roster lookup for an unknown id.
var ErrStudentNotFound = errors.New("student not found")

// defaultBelt is assigned to new students without an explicit rank.
const defaultBelt = "White"

// RosterService manages the student roster. Removal is always a soft delete
// so historical logs keep resolving.
type RosterService interface {
	ListActive(ctx context.Context) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, req dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Remove(ctx context.Context, id string) error
}

type rosterService struct {
	repo     repository.RosterRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(repo repository.RosterRepository, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		repo:     repo,
		validate: validate,
		logger:   logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) ListActive(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

func (s *rosterService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if student == nil {
		return dto.StudentResponse{}, ErrStudentNotFound
	}
	return dto.NewStudentResponse(*student), nil
}

func (s *rosterService) Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	belt := strings.TrimSpace(req.Belt)
	if belt == "" {
		belt = defaultBelt
	}

	student := models.Student{
		Name:        strings.TrimSpace(req.Name),
		Age:         req.Age,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Belt:        belt,
		IsActive:    true,
	}
	if _, err := s.repo.Upsert(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Msg("student added to roster")
	return dto.NewStudentResponse(student), nil
}

func (s *rosterService) Update(ctx context.Context, id string, req dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if student == nil {
		return dto.StudentResponse{}, ErrStudentNotFound
	}

	student.Name = strings.TrimSpace(req.Name)
	student.Age = req.Age
	student.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if belt := strings.TrimSpace(req.Belt); belt != "" {
		student.Belt = belt
	}

	if _, err := s.repo.Upsert(ctx, student); err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(*student), nil
}

func (s *rosterService) Remove(ctx context.Context, id string) error {
	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrStudentNotFound
	}
	return err
}
