package scheduling

import (
	"time"

	"hospital-frontdesk-server/internal/apperr"
	"hospital-frontdesk-server/internal/models"
)

// legalTransitions is the closed transition table for appointment status.
// COMPLETED, CANCELLED and NO_SHOW are terminal and have no entries.
var legalTransitions = map[models.AppointmentStatus]map[models.AppointmentStatus]bool{
	models.StatusScheduled: {
		models.StatusWaiting:   true,
		models.StatusCancelled: true,
		models.StatusNoShow:    true,
	},
	models.StatusWaiting: {
		models.StatusInProgress: true,
		models.StatusCancelled:  true,
		models.StatusNoShow:     true,
	},
	models.StatusInProgress: {
		models.StatusCompleted: true,
		models.StatusNoShow:    true,
	},
}

// CanTransition reports whether from -> to is a legal status change. Pure,
// usable by the UI to enable/disable controls before committing anything.
func CanTransition(from, to models.AppointmentStatus) bool {
	return legalTransitions[from][to]
}

// Lifecycle applies status transitions to appointments, stamping the
// timestamp each transition produces. Now is injectable for tests.
type Lifecycle struct {
	Now func() time.Time
}

// NewLifecycle returns a Lifecycle running on the wall clock.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{Now: time.Now}
}

// MarkArrived moves SCHEDULED -> WAITING and stamps ArrivedAt.
func (l *Lifecycle) MarkArrived(a *models.Appointment) error {
	if a.Status != models.StatusScheduled {
		return apperr.InvalidTransition(string(a.Status), string(models.StatusWaiting))
	}
	now := l.Now()
	a.Status = models.StatusWaiting
	a.ArrivedAt = &now
	return nil
}

// StartConsultation moves WAITING -> IN_PROGRESS and stamps StartedAt.
func (l *Lifecycle) StartConsultation(a *models.Appointment) error {
	if a.Status != models.StatusWaiting {
		return apperr.InvalidTransition(string(a.Status), string(models.StatusInProgress))
	}
	now := l.Now()
	a.Status = models.StatusInProgress
	a.StartedAt = &now
	return nil
}

// CompleteConsultation moves IN_PROGRESS -> COMPLETED and stamps CompletedAt.
func (l *Lifecycle) CompleteConsultation(a *models.Appointment) error {
	if a.Status != models.StatusInProgress {
		return apperr.InvalidTransition(string(a.Status), string(models.StatusCompleted))
	}
	now := l.Now()
	a.Status = models.StatusCompleted
	a.CompletedAt = &now
	return nil
}

// Cancel moves SCHEDULED or WAITING -> CANCELLED. Earlier lifecycle
// timestamps are kept; cancellation records what happened, it does not
// rewrite it.
func (l *Lifecycle) Cancel(a *models.Appointment, reason string) error {
	if a.Status != models.StatusScheduled && a.Status != models.StatusWaiting {
		return apperr.InvalidTransition(string(a.Status), string(models.StatusCancelled))
	}
	a.Status = models.StatusCancelled
	a.CancelReason = reason
	return nil
}

// MarkNoShow moves any non-terminal status -> NO_SHOW.
func (l *Lifecycle) MarkNoShow(a *models.Appointment) error {
	if !CanTransition(a.Status, models.StatusNoShow) {
		return apperr.InvalidTransition(string(a.Status), string(models.StatusNoShow))
	}
	a.Status = models.StatusNoShow
	return nil
}
