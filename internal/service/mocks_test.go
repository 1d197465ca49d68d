package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/notifier"
	"gorm.io/gorm"
)

// --- Mock ExperienceRepository ---

type mockExperienceRepo struct {
	createFn       func(ctx context.Context, experience *models.Experience) error
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*models.Experience, error)
	findUpcomingFn func(ctx context.Context, from time.Time) ([]models.Experience, error)
	findByIDsFn    func(ctx context.Context, ids []uuid.UUID) ([]models.Experience, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockExperienceRepo) Create(ctx context.Context, experience *models.Experience) error {
	return m.createFn(ctx, experience)
}

func (m *mockExperienceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockExperienceRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Experience, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockExperienceRepo) FindUpcoming(ctx context.Context, from time.Time) ([]models.Experience, error) {
	return m.findUpcomingFn(ctx, from)
}

func (m *mockExperienceRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Experience, error) {
	return m.findByIDsFn(ctx, ids)
}

func (m *mockExperienceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

// --- Mock EnrollmentRepository ---

type mockEnrollmentRepo struct {
	findJoinedByExperienceFn  func(ctx context.Context, experienceID uuid.UUID) ([]models.Enrollment, error)
	findJoinedExperienceIDsFn func(ctx context.Context, userID string) ([]uuid.UUID, error)
	countJoinedGroupedFn      func(ctx context.Context, experienceIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	return nil
}

func (m *mockEnrollmentRepo) FindByUserAndExperience(ctx context.Context, tx *gorm.DB, userID string, experienceID uuid.UUID) (*models.Enrollment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) CountJoined(ctx context.Context, tx *gorm.DB, experienceID uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *mockEnrollmentRepo) CountJoinedGrouped(ctx context.Context, experienceIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if m.countJoinedGroupedFn != nil {
		return m.countJoinedGroupedFn(ctx, experienceIDs)
	}
	return map[uuid.UUID]int64{}, nil
}

func (m *mockEnrollmentRepo) FindJoinedByExperience(ctx context.Context, experienceID uuid.UUID) ([]models.Enrollment, error) {
	return m.findJoinedByExperienceFn(ctx, experienceID)
}

func (m *mockEnrollmentRepo) FindJoinedExperienceIDs(ctx context.Context, userID string) ([]uuid.UUID, error) {
	if m.findJoinedExperienceIDsFn != nil {
		return m.findJoinedExperienceIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockEnrollmentRepo) GetDB() *gorm.DB {
	return nil
}

// --- Mock ProfileRepository ---

type mockProfileRepo struct {
	findByUserIDFn  func(ctx context.Context, userID string) (*models.Profile, error)
	findByUserIDsFn func(ctx context.Context, userIDs []string) ([]models.Profile, error)
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]models.Profile, error) {
	return m.findByUserIDsFn(ctx, userIDs)
}

// --- Mock Notifier ---

type mockNotifier struct {
	sendFn func(ctx context.Context, to notifier.Contact, subject, body string) error
}

func (m *mockNotifier) Send(ctx context.Context, to notifier.Contact, subject, body string) error {
	return m.sendFn(ctx, to, subject, body)
}
