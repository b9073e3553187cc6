package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProfilePhoto stores metadata about an uploaded profile picture. The image
// bytes themselves live in cloud storage; only the secure URL is kept here.
type ProfilePhoto struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	OwnerID   string            `gorm:"size:64;index" json:"owner_id"`
	FileName  string            `gorm:"size:255;not null" json:"file_name"`
	URL       string            `gorm:"size:512;not null" json:"url"`
	MimeType  string            `gorm:"size:128;not null" json:"mime_type"`
	SizeBytes int64             `gorm:"not null" json:"size_bytes"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
