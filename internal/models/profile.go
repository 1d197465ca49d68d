package models

import "time"

// Profile holds the contactable identity behind a user id. Account management
// lives upstream; this service only reads profiles to resolve notification
// recipients and host display names.
type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName string    `gorm:"not null" json:"display_name"`
	Email       string    `gorm:"not null" json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
