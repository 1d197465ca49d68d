package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	FindByUserAndExperience(ctx context.Context, tx *gorm.DB, userID string, experienceID uuid.UUID) (*models.Enrollment, error)
	CountJoined(ctx context.Context, tx *gorm.DB, experienceID uuid.UUID) (int64, error)
	CountJoinedGrouped(ctx context.Context, experienceIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	FindJoinedByExperience(ctx context.Context, experienceID uuid.UUID) ([]models.Enrollment, error)
	FindJoinedExperienceIDs(ctx context.Context, userID string) ([]uuid.UUID, error)
	GetDB() *gorm.DB
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *enrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	return tx.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	// Updates via map so clearing left_at back to NULL is persisted.
	return tx.WithContext(ctx).
		Model(enrollment).
		Updates(map[string]any{
			"status":    enrollment.Status,
			"joined_at": enrollment.JoinedAt,
			"left_at":   enrollment.LeftAt,
		}).Error
}

func (r *enrollmentRepository) FindByUserAndExperience(ctx context.Context, tx *gorm.DB, userID string, experienceID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := tx.WithContext(ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) CountJoined(ctx context.Context, tx *gorm.DB, experienceID uuid.UUID) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("experience_id = ? AND status = ?", experienceID, models.StatusJoined).
		Count(&count).Error
	return count, err
}

// CountJoinedGrouped returns joined counts for many experiences in one query.
// Used by discovery badges; reads are not serialized against admission.
func (r *enrollmentRepository) CountJoinedGrouped(ctx context.Context, experienceIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(experienceIDs))
	if len(experienceIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ExperienceID uuid.UUID
		Total        int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("experience_id, COUNT(*) AS total").
		Where("experience_id IN ? AND status = ?", experienceIDs, models.StatusJoined).
		Group("experience_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ExperienceID] = row.Total
	}
	return counts, nil
}

func (r *enrollmentRepository) FindJoinedByExperience(ctx context.Context, experienceID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Where("experience_id = ? AND status = ?", experienceID, models.StatusJoined).
		Order("id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) FindJoinedExperienceIDs(ctx context.Context, userID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, models.StatusJoined).
		Pluck("experience_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
