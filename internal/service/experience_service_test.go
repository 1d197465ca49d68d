package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validExperience() *models.Experience {
	capacity := 12
	return &models.Experience{
		Title:           "Sunset Rooftop Yoga",
		Description:     "Flow session above the city",
		Category:        "Wellness",
		Tags:            []string{"yoga", "sunset"},
		StartAt:         time.Now().Add(48 * time.Hour),
		LocationAddress: "Sukhumvit 24, Bangkok",
		LocationLat:     13.7305,
		LocationLng:     100.5697,
		Capacity:        &capacity,
		HostUserID:      "host-1",
	}
}

func TestCreateExperience_Success(t *testing.T) {
	repo := &mockExperienceRepo{
		createFn: func(ctx context.Context, experience *models.Experience) error {
			experience.ID = uuid.New()
			return nil
		},
	}
	svc := NewExperienceService(repo)

	experience := validExperience()
	err := svc.CreateExperience(context.Background(), experience)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, experience.ID)
}

func TestCreateExperience_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *models.Experience)
	}{
		{name: "empty title", mutate: func(e *models.Experience) { e.Title = "  " }},
		{name: "empty category", mutate: func(e *models.Experience) { e.Category = "" }},
		{name: "empty address", mutate: func(e *models.Experience) { e.LocationAddress = "" }},
		{name: "missing host", mutate: func(e *models.Experience) { e.HostUserID = "" }},
		{name: "start in the past", mutate: func(e *models.Experience) { e.StartAt = time.Now().Add(-time.Hour) }},
		{name: "zero capacity", mutate: func(e *models.Experience) { zero := 0; e.Capacity = &zero }},
		{name: "negative price", mutate: func(e *models.Experience) { p := -5.0; e.Price = &p }},
	}

	repo := &mockExperienceRepo{
		createFn: func(ctx context.Context, experience *models.Experience) error {
			t.Fatal("invalid experiences must not reach the repository")
			return nil
		},
	}
	svc := NewExperienceService(repo)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			experience := validExperience()
			tt.mutate(experience)

			err := svc.CreateExperience(context.Background(), experience)

			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestGetExperience_NotFound(t *testing.T) {
	repo := &mockExperienceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewExperienceService(repo)

	_, err := svc.GetExperience(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrExperienceNotFound)
}

func TestGetExperience_OtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &mockExperienceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
			return nil, boom
		},
	}
	svc := NewExperienceService(repo)

	_, err := svc.GetExperience(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
}
