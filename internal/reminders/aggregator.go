package reminders

import (
	"fmt"
	"sort"
	"time"

	"hospital-frontdesk-server/internal/models"
)

// Priority orders reminders in the front-desk list.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// ReminderType classifies why an appointment needs attention.
type ReminderType string

const (
	TypeStartingSoon ReminderType = "starting_soon"
	TypeUpcoming     ReminderType = "upcoming"
	TypeOverdue      ReminderType = "overdue"
	TypeWaiting      ReminderType = "waiting"
)

// Reminder is a transient notification derived from appointment timing.
// Regenerated wholesale on every pass, never persisted. ID is
// deterministic ("<type>-<appointmentID>") so the client can correlate
// dismissals across refreshes.
type Reminder struct {
	ID            string       `json:"id"`
	Type          ReminderType `json:"type"`
	Priority      Priority     `json:"priority"`
	AppointmentID uint         `json:"appointmentId"`
	Message       string       `json:"message"`
	Timestamp     time.Time    `json:"timestamp"`
}

// Aggregate classifies every appointment against now and returns the
// prioritized list. Deterministic: same inputs, same output. For SCHEDULED
// appointments the first matching rule wins; a WAITING appointment is
// classified independently by wait time.
func Aggregate(appointments []models.Appointment, now time.Time) []Reminder {
	var out []Reminder
	for i := range appointments {
		appt := &appointments[i]
		if r, ok := classify(appt, now); ok {
			out = append(out, r)
		}
	}
	// Stable: ties keep discovery order.
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	return out
}

func classify(appt *models.Appointment, now time.Time) (Reminder, bool) {
	switch appt.Status {
	case models.StatusScheduled:
		scheduledAt, err := appt.ScheduledAt()
		if err != nil {
			return Reminder{}, false
		}
		until := scheduledAt.Sub(now)
		minutes := int(until.Minutes())
		switch {
		case until > 0 && until <= 30*time.Minute:
			return newReminder(TypeStartingSoon, PriorityHigh, appt, now,
				fmt.Sprintf("%s starts at %s (in %d min)", describe(appt), appt.ScheduledTime, minutes)), true
		case until > 30*time.Minute && sameDay(scheduledAt, now):
			return newReminder(TypeUpcoming, PriorityMedium, appt, now,
				fmt.Sprintf("%s is scheduled today at %s", describe(appt), appt.ScheduledTime)), true
		case until < 0 && until > -2*time.Hour:
			return newReminder(TypeOverdue, PriorityHigh, appt, now,
				fmt.Sprintf("%s was due at %s (%d min ago) and has not arrived", describe(appt), appt.ScheduledTime, -minutes)), true
		}
	case models.StatusWaiting:
		if appt.ArrivedAt == nil {
			return Reminder{}, false
		}
		waitMinutes := int(now.Sub(*appt.ArrivedAt).Minutes())
		priority := PriorityMedium
		if waitMinutes > 15 {
			priority = PriorityHigh
		}
		return newReminder(TypeWaiting, priority, appt, now,
			fmt.Sprintf("%s has been waiting %d min", describe(appt), waitMinutes)), true
	}
	return Reminder{}, false
}

func newReminder(t ReminderType, p Priority, appt *models.Appointment, now time.Time, message string) Reminder {
	return Reminder{
		ID:            fmt.Sprintf("%s-%d", t, appt.ID),
		Type:          t,
		Priority:      p,
		AppointmentID: appt.ID,
		Message:       message,
		Timestamp:     now,
	}
}

func describe(appt *models.Appointment) string {
	if appt.Patient.FirstName != "" || appt.Patient.LastName != "" {
		return appt.Patient.FullName()
	}
	return appt.AppointmentNumber
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
