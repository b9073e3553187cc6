package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	settingsKeyPrefix = "settings:instructor:"

	settingsFieldTheme   = "app_theme"
	settingsFieldMorning = "notif_morning"
	settingsFieldEvening = "notif_evening"
)

// InstructorSettings are the per-instructor preferences: UI theme and the
// two daily class reminders.
type InstructorSettings struct {
	Theme           string `json:"theme"`
	MorningReminder bool   `json:"morning_reminder"`
	EveningReminder bool   `json:"evening_reminder"`
}

// SettingsRepository stores instructor preferences in Redis as a hash per
// instructor. Absent fields fall back to the provided defaults.
type SettingsRepository interface {
	Get(ctx context.Context, instructorID string, defaults InstructorSettings) (InstructorSettings, error)
	Save(ctx context.Context, instructorID string, settings InstructorSettings) error
}

type settingsRepository struct {
	client *redis.Client
}

// NewSettingsRepository constructs the Redis-backed settings repository.
func NewSettingsRepository(client *redis.Client) SettingsRepository {
	return &settingsRepository{client: client}
}

func (r *settingsRepository) Get(ctx context.Context, instructorID string, defaults InstructorSettings) (InstructorSettings, error) {
	fields, err := r.client.HGetAll(ctx, settingsKeyPrefix+instructorID).Result()
	if err != nil {
		return defaults, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := defaults
	if theme, ok := fields[settingsFieldTheme]; ok && theme != "" {
		settings.Theme = theme
	}
	if raw, ok := fields[settingsFieldMorning]; ok {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			settings.MorningReminder = enabled
		}
	}
	if raw, ok := fields[settingsFieldEvening]; ok {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			settings.EveningReminder = enabled
		}
	}
	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, instructorID string, settings InstructorSettings) error {
	err := r.client.HSet(ctx, settingsKeyPrefix+instructorID,
		settingsFieldTheme, settings.Theme,
		settingsFieldMorning, strconv.FormatBool(settings.MorningReminder),
		settingsFieldEvening, strconv.FormatBool(settings.EveningReminder),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
