//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/notifier"
	"github.com/lookfor-app/experience-service/internal/repository"
	"github.com/lookfor-app/experience-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifier.Message
}

func (n *recordingNotifier) Send(ctx context.Context, to notifier.Contact, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notifier.Message{To: to.Email, Name: to.Name, Subject: subject, Body: body})
	return nil
}

func TestCancelExperience_DeletesAndCascades(t *testing.T) {
	cleanTables()
	experience := createTestExperience(t, "Street Food Tour", intPtr(10), 24*time.Hour)
	admission := newAdmissionService()

	for i := 0; i < 3; i++ {
		userID := fmt.Sprintf("user-%03d", i)
		require.NoError(t, testDB.Create(&models.Profile{
			UserID:      userID,
			DisplayName: fmt.Sprintf("User %03d", i),
			Email:       fmt.Sprintf("%s@example.com", userID),
		}).Error)
		_, err := admission.Join(t.Context(), experience.ID, userID)
		require.NoError(t, err)
	}

	recorder := &recordingNotifier{}
	cancellation := service.NewCancellationService(
		repository.NewExperienceRepository(testDB),
		repository.NewEnrollmentRepository(testDB),
		repository.NewProfileRepository(testDB),
		recorder,
		time.Second,
	)

	result, err := cancellation.CancelExperience(t.Context(), experience.ID, "host-1", "venue flooded")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Participants)
	assert.Equal(t, 3, result.Notified)
	assert.Zero(t, result.Failed)
	assert.Len(t, recorder.sent, 3)

	var experiences int64
	testDB.Model(&models.Experience{}).Where("id = ?", experience.ID).Count(&experiences)
	assert.Zero(t, experiences, "experience record removed")

	var enrollments int64
	testDB.Model(&models.Enrollment{}).Where("experience_id = ?", experience.ID).Count(&enrollments)
	assert.Zero(t, enrollments, "enrollments cascade with the experience")
}

func TestCancelExperience_LockedInsideWindow(t *testing.T) {
	cleanTables()
	experience := createTestExperience(t, "Street Food Tour", intPtr(10), 14*time.Minute)

	cancellation := service.NewCancellationService(
		repository.NewExperienceRepository(testDB),
		repository.NewEnrollmentRepository(testDB),
		repository.NewProfileRepository(testDB),
		&recordingNotifier{},
		time.Second,
	)

	_, err := cancellation.CancelExperience(t.Context(), experience.ID, "host-1", "venue flooded")
	assert.ErrorIs(t, err, service.ErrCancellationLocked)

	var experiences int64
	testDB.Model(&models.Experience{}).Where("id = ?", experience.ID).Count(&experiences)
	assert.EqualValues(t, 1, experiences, "locked experience stays put")
}
