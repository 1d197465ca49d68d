package service

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrExperienceNotFound = errors.New("experience not found")
	ErrCapacityFull       = errors.New("experience has no spots left")
	ErrHostEnrollment     = errors.New("hosts cannot join their own experience")
	ErrNotHost            = errors.New("only the host can cancel an experience")
	ErrReasonRequired     = errors.New("a cancellation reason is required")
	ErrCancellationLocked = errors.New("experience is locked: it starts in less than 15 minutes")
)

// CooldownError is returned when a user tries to rejoin an experience before
// the rejoin cooldown has elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	m := e.RemainingMinutes()
	if m == 1 {
		return "you can rejoin this experience in 1 minute"
	}
	return fmt.Sprintf("you can rejoin this experience in %d minutes", m)
}

// RemainingMinutes is the remaining wait rounded up to whole minutes.
func (e *CooldownError) RemainingMinutes() int {
	return int(math.Ceil(e.Remaining.Minutes()))
}

// ValidationError wraps input problems the caller must correct and resubmit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsExpectedOutcome reports whether err is a user-facing admission or
// cancellation outcome rather than an infrastructure failure. Expected
// outcomes are never retried and never logged as bugs.
func IsExpectedOutcome(err error) bool {
	var cooldown *CooldownError
	var validation *ValidationError
	return errors.Is(err, ErrExperienceNotFound) ||
		errors.Is(err, ErrCapacityFull) ||
		errors.Is(err, ErrHostEnrollment) ||
		errors.Is(err, ErrNotHost) ||
		errors.Is(err, ErrReasonRequired) ||
		errors.Is(err, ErrCancellationLocked) ||
		errors.As(err, &cooldown) ||
		errors.As(err, &validation)
}
