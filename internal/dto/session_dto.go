package dto

import (
	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

// MarkRequest records one swipe for the student at the head of the queue.
type MarkRequest struct {
	StudentID string `json:"student_id" validate:"required,max=64"`
	Status    string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE"`
}

// SessionResponse is the full view of today's attendance session.
type SessionResponse struct {
	DateKey    string                             `json:"date_key"`
	Queue      []models.Student                   `json:"queue"`
	Marked     map[string]models.AttendanceStatus `json:"marked"`
	TotalCount int                                `json:"total_count"`
	Progress   float64                            `json:"progress"`
	Finalized  bool                               `json:"finalized"`
	Error      string                             `json:"error,omitempty"`
}
