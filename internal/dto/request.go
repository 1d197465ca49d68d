package dto

import "time"

type CreateExperienceRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Tags            []string  `json:"tags"`
	StartAt         time.Time `json:"start_at"`
	LocationAddress string    `json:"location_address"`
	LocationLat     float64   `json:"location_lat"`
	LocationLng     float64   `json:"location_lng"`
	Price           *float64  `json:"price,omitempty"`
	Capacity        *int      `json:"capacity,omitempty"`
	ImageURL        *string   `json:"image_url,omitempty"`
	HostUserID      string    `json:"host_user_id"`
}

type CancelExperienceRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type EnrollmentRequest struct {
	UserID string `json:"user_id"`
}
