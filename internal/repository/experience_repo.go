package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExperienceRepository interface {
	Create(ctx context.Context, experience *models.Experience) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Experience, error)
	FindUpcoming(ctx context.Context, from time.Time) ([]models.Experience, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Experience, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type experienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) ExperienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) Create(ctx context.Context, experience *models.Experience) error {
	return r.db.WithContext(ctx).Create(experience).Error
}

func (r *experienceRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	var experience models.Experience
	if err := r.db.WithContext(ctx).First(&experience, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &experience, nil
}

// FindByIDForUpdate acquires a row-level lock on the experience within the
// given transaction. All admission for one experience serializes on this lock.
func (r *experienceRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Experience, error) {
	var experience models.Experience
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&experience, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &experience, nil
}

// FindUpcoming lists experiences starting at or after the given time, soonest
// first.
func (r *experienceRepository) FindUpcoming(ctx context.Context, from time.Time) ([]models.Experience, error) {
	var experiences []models.Experience
	err := r.db.WithContext(ctx).
		Where("start_at >= ?", from).
		Order("start_at ASC").
		Find(&experiences).Error
	if err != nil {
		return nil, err
	}
	return experiences, nil
}

func (r *experienceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Experience, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var experiences []models.Experience
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("start_at ASC").
		Find(&experiences).Error
	if err != nil {
		return nil, err
	}
	return experiences, nil
}

func (r *experienceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Experience{}, "id = ?", id).Error
}
