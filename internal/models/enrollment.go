package models

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	StatusJoined    EnrollmentStatus = "joined"
	StatusCancelled EnrollmentStatus = "cancelled"
)

// Enrollment is the single row tracking one user's join/leave history for one
// experience. The (experience_id, user_id) pair is unique: rejoining flips the
// row back to joined instead of inserting a new one.
type Enrollment struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	ExperienceID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_experience" json:"experience_id"`
	UserID       string           `gorm:"not null;uniqueIndex:idx_enrollment_user_experience" json:"user_id"`
	Status       EnrollmentStatus `gorm:"type:varchar(20);not null;default:'joined'" json:"status"`
	JoinedAt     time.Time        `gorm:"not null" json:"joined_at"`
	LeftAt       *time.Time       `json:"left_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Experience *Experience `gorm:"foreignKey:ExperienceID;constraint:OnDelete:CASCADE" json:"experience,omitempty"`
}
