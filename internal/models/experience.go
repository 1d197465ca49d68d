package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Experience struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `json:"description"`
	Category        string         `gorm:"not null;index" json:"category"`
	Tags            pq.StringArray `gorm:"type:text[]" json:"tags"`
	StartAt         time.Time      `gorm:"not null;index" json:"start_at"`
	LocationAddress string         `gorm:"not null" json:"location_address"`
	LocationLat     float64        `gorm:"not null" json:"location_lat"`
	LocationLng     float64        `gorm:"not null" json:"location_lng"`
	Price           *float64       `json:"price,omitempty"`
	Capacity        *int           `json:"capacity,omitempty"`
	ImageURL        *string        `json:"image_url,omitempty"`
	HostUserID      string         `gorm:"not null;index" json:"host_user_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Unlimited reports whether the experience has no seat ceiling.
func (e *Experience) Unlimited() bool {
	return e.Capacity == nil
}
