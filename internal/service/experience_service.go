package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/repository"
	"gorm.io/gorm"
)

type ExperienceService interface {
	CreateExperience(ctx context.Context, experience *models.Experience) error
	GetExperience(ctx context.Context, id uuid.UUID) (*models.Experience, error)
}

type experienceService struct {
	repo repository.ExperienceRepository
}

func NewExperienceService(repo repository.ExperienceRepository) ExperienceService {
	return &experienceService{repo: repo}
}

func (s *experienceService) CreateExperience(ctx context.Context, experience *models.Experience) error {
	if err := validateExperience(experience); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, experience); err != nil {
		return fmt.Errorf("create experience: %w", err)
	}
	return nil
}

func (s *experienceService) GetExperience(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	experience, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	return experience, nil
}

func validateExperience(e *models.Experience) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	case strings.TrimSpace(e.Category) == "":
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	case strings.TrimSpace(e.LocationAddress) == "":
		return &ValidationError{Field: "location_address", Reason: "must not be empty"}
	case strings.TrimSpace(e.HostUserID) == "":
		return &ValidationError{Field: "host_user_id", Reason: "must not be empty"}
	case e.StartAt.Before(time.Now()):
		return &ValidationError{Field: "start_at", Reason: "must be in the future"}
	case e.Capacity != nil && *e.Capacity < 1:
		return &ValidationError{Field: "capacity", Reason: "must be at least 1"}
	case e.Price != nil && *e.Price < 0:
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}
