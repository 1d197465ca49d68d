package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/service"
)

type ExperienceResponse struct {
	ID              uuid.UUID `json:"id"`
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
	CreatedAt       time.Time `json:"created_at"`
}

type DiscoveryItemResponse struct {
	ExperienceResponse
	DistanceKm  *float64 `json:"distance_km,omitempty"`
	Joined      bool     `json:"joined"`
	JoinedCount int64    `json:"joined_count"`
}

type EnrollmentResponse struct {
	ID           uint                    `json:"id"`
	ExperienceID uuid.UUID               `json:"experience_id"`
	UserID       string                  `json:"user_id"`
	Status       models.EnrollmentStatus `json:"status"`
	JoinedAt     time.Time               `json:"joined_at"`
	LeftAt       *time.Time              `json:"left_at,omitempty"`
}

type EnrollmentCountResponse struct {
	ExperienceID uuid.UUID `json:"experience_id"`
	Joined       int64     `json:"joined"`
	Capacity     *int      `json:"capacity,omitempty"`
	Available    *int64    `json:"available,omitempty"`
}

type CancellationResponse struct {
	ExperienceID uuid.UUID `json:"experience_id"`
	Participants int       `json:"participants"`
	Notified     int       `json:"notified"`
	Failed       int       `json:"failed"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToExperienceResponse(e *models.Experience) ExperienceResponse {
	return ExperienceResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Category:        e.Category,
		Tags:            e.Tags,
		StartAt:         e.StartAt,
		LocationAddress: e.LocationAddress,
		LocationLat:     e.LocationLat,
		LocationLng:     e.LocationLng,
		Price:           e.Price,
		Capacity:        e.Capacity,
		ImageURL:        e.ImageURL,
		HostUserID:      e.HostUserID,
		CreatedAt:       e.CreatedAt,
	}
}

func ToDiscoveryItemResponse(r service.Result) DiscoveryItemResponse {
	return DiscoveryItemResponse{
		ExperienceResponse: ToExperienceResponse(&r.Experience),
		DistanceKm:         r.DistanceKm,
		Joined:             r.Joined,
		JoinedCount:        r.JoinedCount,
	}
}

func ToEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:           e.ID,
		ExperienceID: e.ExperienceID,
		UserID:       e.UserID,
		Status:       e.Status,
		JoinedAt:     e.JoinedAt,
		LeftAt:       e.LeftAt,
	}
}
