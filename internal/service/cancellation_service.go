package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/notifier"
	"github.com/lookfor-app/experience-service/internal/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DeletionLockWindow is how long before its start an experience becomes
// immutable-for-deletion.
const DeletionLockWindow = 15 * time.Minute

// defaultNotifyTimeout bounds a single notification attempt so one slow
// recipient cannot stall the fan-out or the delete.
const defaultNotifyTimeout = 5 * time.Second

type CancellationResult struct {
	Participants int
	Notified     int
	Failed       int
}

type CancellationService interface {
	CancelExperience(ctx context.Context, experienceID uuid.UUID, hostID, reason string) (*CancellationResult, error)
}

type cancellationService struct {
	experienceRepo repository.ExperienceRepository
	enrollmentRepo repository.EnrollmentRepository
	profileRepo    repository.ProfileRepository
	notifier       notifier.Notifier
	notifyTimeout  time.Duration
}

func NewCancellationService(
	experienceRepo repository.ExperienceRepository,
	enrollmentRepo repository.EnrollmentRepository,
	profileRepo repository.ProfileRepository,
	n notifier.Notifier,
	notifyTimeout time.Duration,
) CancellationService {
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &cancellationService{
		experienceRepo: experienceRepo,
		enrollmentRepo: enrollmentRepo,
		profileRepo:    profileRepo,
		notifier:       n,
		notifyTimeout:  notifyTimeout,
	}
}

// CancelExperience withdraws an experience on behalf of its host: it rejects
// inside the deletion-lock window, notifies every joined participant best
// effort, then deletes the record regardless of delivery outcome. Notification
// failures are counted, never propagated.
func (s *cancellationService) CancelExperience(ctx context.Context, experienceID uuid.UUID, hostID, reason string) (*CancellationResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	experience, err := s.experienceRepo.FindByID(ctx, experienceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("load experience: %w", err)
	}

	if experience.HostUserID != hostID {
		return nil, ErrNotHost
	}

	// Lock check: no cancellation at or past start - 15min.
	if !time.Now().Before(experience.StartAt.Add(-DeletionLockWindow)) {
		return nil, ErrCancellationLocked
	}

	participants, err := s.enrollmentRepo.FindJoinedByExperience(ctx, experienceID)
	if err != nil {
		return nil, fmt.Errorf("resolve participants: %w", err)
	}

	result := &CancellationResult{Participants: len(participants)}

	contacts, unresolved := s.resolveContacts(ctx, participants)
	result.Failed += unresolved

	notified, failed := s.fanOut(ctx, contacts, experience, reason)
	result.Notified = notified
	result.Failed += failed

	// Deletion is authoritative: it proceeds no matter how the fan-out went.
	if err := s.experienceRepo.Delete(ctx, experienceID); err != nil {
		return nil, fmt.Errorf("delete experience: %w", err)
	}

	log.Printf("[Cancellation] experience %s cancelled by host: %d participants, %d notified, %d failed",
		experienceID, result.Participants, result.Notified, result.Failed)
	return result, nil
}

func (s *cancellationService) resolveContacts(ctx context.Context, participants []models.Enrollment) ([]notifier.Contact, int) {
	if len(participants) == 0 {
		return nil, 0
	}

	userIDs := make([]string, len(participants))
	for i, p := range participants {
		userIDs[i] = p.UserID
	}

	profiles, err := s.profileRepo.FindByUserIDs(ctx, userIDs)
	if err != nil {
		log.Printf("[Cancellation] failed to resolve participant contacts: %v", err)
		return nil, len(participants)
	}

	contacts := make([]notifier.Contact, 0, len(profiles))
	for _, p := range profiles {
		if p.Email == "" {
			continue
		}
		contacts = append(contacts, notifier.Contact{Name: p.DisplayName, Email: p.Email})
	}
	return contacts, len(participants) - len(contacts)
}

// fanOut dispatches one notification per contact concurrently. Each attempt is
// independent and bounded by the per-send timeout; failures are counted and
// swallowed so they never reach the caller.
func (s *cancellationService) fanOut(ctx context.Context, contacts []notifier.Contact, experience *models.Experience, reason string) (notified, failed int) {
	if len(contacts) == 0 {
		return 0, 0
	}

	hostName := s.hostDisplayName(ctx, experience.HostUserID)
	subject := fmt.Sprintf("Experience Cancelled: %s", experience.Title)

	var ok, nok atomic.Int64
	var g errgroup.Group
	for _, contact := range contacts {
		g.Go(func() error {
			sendCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
			defer cancel()

			body := cancellationBody(experience.Title, hostName, reason)
			if err := s.notifier.Send(sendCtx, contact, subject, body); err != nil {
				log.Printf("[Cancellation] notify %s failed: %v", contact.Email, err)
				nok.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(ok.Load()), int(nok.Load())
}

func (s *cancellationService) hostDisplayName(ctx context.Context, hostID string) string {
	profile, err := s.profileRepo.FindByUserID(ctx, hostID)
	if err != nil || profile.DisplayName == "" {
		return "the host"
	}
	return profile.DisplayName
}

func cancellationBody(title, hostName, reason string) string {
	return fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Experience Cancelled</h1>
  <p>We're sorry to inform you that the experience <strong>%q</strong> has been cancelled by the host.</p>
  <div style="background-color: #f5f5f5; padding: 16px; border-radius: 8px;">
    <h3>Reason from %s:</h3>
    <p>%s</p>
  </div>
  <p>We apologize for any inconvenience this may cause. We encourage you to explore other experiences on Lookfor!</p>
</div>`, title, hostName, reason)
}
