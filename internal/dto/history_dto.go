package dto

import (
	"time"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

// LogResponse is the serialized daily log for calendar and detail views.
type LogResponse struct {
	DateKey    string                             `json:"date_key"`
	Date       time.Time                          `json:"date"`
	Focus      string                             `json:"focus"`
	Finalized  bool                               `json:"finalized"`
	Attendance map[string]models.AttendanceStatus `json:"attendance"`
	LateCount  int                                `json:"late_count"`
}

// NewLogResponse converts a model into a DTO.
func NewLogResponse(log models.DailyLog) LogResponse {
	attendance := log.Attendance
	if attendance == nil {
		attendance = models.AttendanceMap{}
	}
	return LogResponse{
		DateKey:    log.DateKey,
		Date:       log.Date,
		Focus:      log.Focus,
		Finalized:  log.Finalized,
		Attendance: attendance,
		LateCount:  log.LateCount(),
	}
}

// NewLogResponseSlice converts a slice of models into DTOs.
func NewLogResponseSlice(logs []models.DailyLog) []LogResponse {
	out := make([]LogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, NewLogResponse(log))
	}
	return out
}

// DayDetailEntry pairs a student with their recorded status for one day.
// Students missing from the attendance map read back as ABSENT.
type DayDetailEntry struct {
	Student StudentResponse         `json:"student"`
	Status  models.AttendanceStatus `json:"status"`
}

// DayDetailResponse joins a day's log with the roster, including archived
// students that appear in the attendance map.
type DayDetailResponse struct {
	Log     LogResponse      `json:"log"`
	Entries []DayDetailEntry `json:"entries"`
}

// FocusUpdateRequest edits the free-text focus of the day.
type FocusUpdateRequest struct {
	Focus string `json:"focus" validate:"max=512"`
}

// StatusOverrideRequest cycles or sets one student's status on an
// unfinalized log.
type StatusOverrideRequest struct {
	StudentID string `json:"student_id" validate:"required,max=64"`
	Status    string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE"`
}
