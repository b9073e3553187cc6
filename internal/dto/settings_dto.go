package dto

// SettingsResponse is the instructor's stored preferences.
type SettingsResponse struct {
	Theme           string `json:"theme"`
	MorningReminder bool   `json:"morning_reminder"`
	EveningReminder bool   `json:"evening_reminder"`
}

// SettingsUpdateRequest replaces the instructor's preferences.
type SettingsUpdateRequest struct {
	Theme           string `json:"theme" validate:"required,oneof=LIGHT DARK SYSTEM"`
	MorningReminder bool   `json:"morning_reminder"`
	EveningReminder bool   `json:"evening_reminder"`
}
