package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/repository"
	"gorm.io/gorm"
)

// RejoinCooldown is how long a user must wait after leaving an experience
// before rejoining it.
const RejoinCooldown = 15 * time.Minute

type AdmissionService interface {
	Join(ctx context.Context, experienceID uuid.UUID, userID string) (*models.Enrollment, error)
	Leave(ctx context.Context, experienceID uuid.UUID, userID string) (*models.Enrollment, error)
	EnrollmentCount(ctx context.Context, experienceID uuid.UUID) (int64, error)
}

type admissionService struct {
	enrollmentRepo repository.EnrollmentRepository
	experienceRepo repository.ExperienceRepository
}

func NewAdmissionService(enrollmentRepo repository.EnrollmentRepository, experienceRepo repository.ExperienceRepository) AdmissionService {
	return &admissionService{
		enrollmentRepo: enrollmentRepo,
		experienceRepo: experienceRepo,
	}
}

// Join admits a user into an experience. The whole decision runs inside one
// transaction that first locks the experience row, so concurrent joins for the
// same experience serialize and the capacity check-and-write is indivisible.
func (s *admissionService) Join(ctx context.Context, experienceID uuid.UUID, userID string) (*models.Enrollment, error) {
	var result *models.Enrollment

	attempt := func() error {
		return s.enrollmentRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// 1. Lock the experience row — serializes concurrent admission
			experience, err := s.experienceRepo.FindByIDForUpdate(ctx, tx, experienceID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrExperienceNotFound
				}
				return err
			}

			// 2. Hosts do not enroll in their own listing
			if experience.HostUserID == userID {
				return ErrHostEnrollment
			}

			enrollment, err := s.enrollmentRepo.FindByUserAndExperience(ctx, tx, userID, experienceID)
			switch {
			case err == nil:
				return s.rejoin(ctx, tx, experience, enrollment, &result)

			case errors.Is(err, gorm.ErrRecordNotFound):
				// 3. First join: capacity check and insert in the same tx
				if err := s.checkCapacity(ctx, tx, experience); err != nil {
					return err
				}
				enrollment = &models.Enrollment{
					ExperienceID: experienceID,
					UserID:       userID,
					Status:       models.StatusJoined,
					JoinedAt:     time.Now(),
				}
				if err := s.enrollmentRepo.Create(ctx, tx, enrollment); err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						// The row appeared between lookup and insert; treat
						// as "already exists" and flip it instead.
						existing, findErr := s.enrollmentRepo.FindByUserAndExperience(ctx, tx, userID, experienceID)
						if findErr != nil {
							return findErr
						}
						return s.rejoin(ctx, tx, experience, existing, &result)
					}
					return err
				}
				result = enrollment
				return nil

			default:
				return err
			}
		})
	}

	err := attempt()
	if err != nil && !IsExpectedOutcome(err) {
		// One retry for transient storage failures, then surface as-is.
		err = attempt()
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// rejoin flips an existing enrollment row back to joined, enforcing the
// cooldown and capacity invariants. Joined rows are an idempotent success.
func (s *admissionService) rejoin(ctx context.Context, tx *gorm.DB, experience *models.Experience, enrollment *models.Enrollment, result **models.Enrollment) error {
	if enrollment.Status == models.StatusJoined {
		*result = enrollment
		return nil
	}

	if enrollment.LeftAt != nil {
		if wait := time.Until(enrollment.LeftAt.Add(RejoinCooldown)); wait > 0 {
			return &CooldownError{Remaining: wait}
		}
	}

	if err := s.checkCapacity(ctx, tx, experience); err != nil {
		return err
	}

	enrollment.Status = models.StatusJoined
	enrollment.JoinedAt = time.Now()
	enrollment.LeftAt = nil
	if err := s.enrollmentRepo.Update(ctx, tx, enrollment); err != nil {
		return err
	}
	*result = enrollment
	return nil
}

func (s *admissionService) checkCapacity(ctx context.Context, tx *gorm.DB, experience *models.Experience) error {
	if experience.Unlimited() {
		return nil
	}
	joined, err := s.enrollmentRepo.CountJoined(ctx, tx, experience.ID)
	if err != nil {
		return err
	}
	if joined >= int64(*experience.Capacity) {
		return ErrCapacityFull
	}
	return nil
}

// Leave marks the caller's enrollment cancelled and stamps left_at. Leaving
// when not enrolled is a no-op success; only the caller's own row is touched,
// so no experience lock is needed.
func (s *admissionService) Leave(ctx context.Context, experienceID uuid.UUID, userID string) (*models.Enrollment, error) {
	db := s.enrollmentRepo.GetDB().WithContext(ctx)

	enrollment, err := s.enrollmentRepo.FindByUserAndExperience(ctx, db, userID, experienceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if enrollment.Status == models.StatusCancelled {
		return enrollment, nil
	}

	now := time.Now()
	enrollment.Status = models.StatusCancelled
	enrollment.LeftAt = &now
	if err := s.enrollmentRepo.Update(ctx, db, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// EnrollmentCount is the display-only joined count. It reads without locking;
// admission re-counts under the experience lock.
func (s *admissionService) EnrollmentCount(ctx context.Context, experienceID uuid.UUID) (int64, error) {
	return s.enrollmentRepo.CountJoined(ctx, s.enrollmentRepo.GetDB(), experienceID)
}
