package dto

import "github.com/kumar-pranav/dojotrack-api/internal/models"

// StudentCreateRequest adds a student to the roster.
type StudentCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Age         int    `json:"age" validate:"gte=0,lte=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	Belt        string `json:"belt" validate:"omitempty,max=64"`
}

// StudentUpdateRequest edits roster fields. Streak and attendance counters
// are owned by the session engine and cannot be set here.
type StudentUpdateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Age         int    `json:"age" validate:"gte=0,lte=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	Belt        string `json:"belt" validate:"omitempty,max=64"`
}

// StudentResponse is the serialized roster entry.
type StudentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	PhoneNumber   string `json:"phone_number"`
	Belt          string `json:"belt"`
	IsActive      bool   `json:"is_active"`
	TotalClasses  int    `json:"total_classes"`
	CurrentStreak int    `json:"current_streak"`
	LastAttended  int64  `json:"last_attended"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:            student.ID,
		Name:          student.Name,
		Age:           student.Age,
		PhoneNumber:   student.PhoneNumber,
		Belt:          student.Belt,
		IsActive:      student.IsActive,
		TotalClasses:  student.TotalClasses,
		CurrentStreak: student.CurrentStreak,
		LastAttended:  student.LastAttended,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		out = append(out, NewStudentResponse(student))
	}
	return out
}
