package models

// Student represents a member of the school roster. The document id is
// assigned by the store on creation and is never recycled; removal is a
// soft delete via IsActive.
type Student struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:255;not null;index" json:"name"`
	Age         int    `json:"age"`
	PhoneNumber string `gorm:"size:32" json:"phone_number"`
	Belt        string `gorm:"size:64;default:White" json:"belt"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	// Quick stats surfaced on the roster cards. CurrentStreak is a cache of
	// the value derived from the full attendance history and is corrected on
	// every session load.
	TotalClasses  int   `json:"total_classes"`
	CurrentStreak int   `json:"current_streak"`
	LastAttended  int64 `json:"last_attended"`
}
