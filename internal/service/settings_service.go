package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/repository"
)

// Theme names accepted by the settings surface.
const (
	ThemeLight  = "LIGHT"
	ThemeDark   = "DARK"
	ThemeSystem = "SYSTEM"
)

// defaultSettings mirror the app's first-run behaviour: system theme and
// both class reminders on.
var defaultSettings = repository.InstructorSettings{
	Theme:           ThemeSystem,
	MorningReminder: true,
	EveningReminder: true,
}

// SettingsService stores per-instructor preferences.
type SettingsService interface {
	Get(ctx context.Context, instructorID string) (dto.SettingsResponse, error)
	Update(ctx context.Context, instructorID string, req dto.SettingsUpdateRequest) (dto.SettingsResponse, error)
}

type settingsService struct {
	repo     repository.SettingsRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo repository.SettingsRepository, validate *validator.Validate, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:     repo,
		validate: validate,
		logger:   logger.With().Str("component", "settings_service").Logger(),
	}
}

func (s *settingsService) Get(ctx context.Context, instructorID string) (dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx, instructorID, defaultSettings)
	if err != nil {
		return dto.SettingsResponse{}, err
	}
	return dto.SettingsResponse{
		Theme:           settings.Theme,
		MorningReminder: settings.MorningReminder,
		EveningReminder: settings.EveningReminder,
	}, nil
}

func (s *settingsService) Update(ctx context.Context, instructorID string, req dto.SettingsUpdateRequest) (dto.SettingsResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.SettingsResponse{}, err
	}

	settings := repository.InstructorSettings{
		Theme:           req.Theme,
		MorningReminder: req.MorningReminder,
		EveningReminder: req.EveningReminder,
	}
	if err := s.repo.Save(ctx, instructorID, settings); err != nil {
		return dto.SettingsResponse{}, err
	}

	return dto.SettingsResponse{
		Theme:           settings.Theme,
		MorningReminder: settings.MorningReminder,
		EveningReminder: settings.EveningReminder,
	}, nil
}
