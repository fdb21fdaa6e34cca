package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-frontdesk-server/internal/models"
)

func scheduledAppt(id uint, date, timeStr string) models.Appointment {
	return models.Appointment{
		BaseModel:     models.BaseModel{ID: id},
		ScheduledDate: date,
		ScheduledTime: timeStr,
		Status:        models.StatusScheduled,
		Patient:       models.Patient{FirstName: "Jane", LastName: "Doe"},
	}
}

func TestAggregate_StartingSoon(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 45, 0, 0, time.Local)
	appts := []models.Appointment{scheduledAppt(1, "2026-03-10", "09:00")}

	out := Aggregate(appts, now)
	require.Len(t, out, 1)
	assert.Equal(t, TypeStartingSoon, out[0].Type)
	assert.Equal(t, PriorityHigh, out[0].Priority)
	assert.Equal(t, "starting_soon-1", out[0].ID)
	assert.Contains(t, out[0].Message, "in 15 min")
}

func TestAggregate_Upcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	appts := []models.Appointment{scheduledAppt(2, "2026-03-10", "14:00")}

	out := Aggregate(appts, now)
	require.Len(t, out, 1)
	assert.Equal(t, TypeUpcoming, out[0].Type)
	assert.Equal(t, PriorityMedium, out[0].Priority)
}

func TestAggregate_TomorrowIsSilent(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	appts := []models.Appointment{scheduledAppt(3, "2026-03-11", "09:00")}

	assert.Empty(t, Aggregate(appts, now))
}

func TestAggregate_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 40, 0, 0, time.Local)
	appts := []models.Appointment{scheduledAppt(4, "2026-03-10", "09:00")}

	out := Aggregate(appts, now)
	require.Len(t, out, 1)
	assert.Equal(t, TypeOverdue, out[0].Type)
	assert.Equal(t, PriorityHigh, out[0].Priority)
	assert.Contains(t, out[0].Message, "40 min ago")
}

func TestAggregate_OverdueExpiresAfterTwoHours(t *testing.T) {
	appts := []models.Appointment{scheduledAppt(5, "2026-03-10", "09:00")}

	now := time.Date(2026, 3, 10, 11, 30, 0, 0, time.Local)
	assert.Empty(t, Aggregate(appts, now), "more than 2 hours past the slot, no longer actionable")

	// The window is exclusive at exactly two hours past.
	atBoundary := time.Date(2026, 3, 10, 11, 0, 0, 0, time.Local)
	assert.Empty(t, Aggregate(appts, atBoundary))

	justInside := time.Date(2026, 3, 10, 10, 59, 0, 0, time.Local)
	out := Aggregate(appts, justInside)
	require.Len(t, out, 1)
	assert.Equal(t, TypeOverdue, out[0].Type)
}

func TestAggregate_WaitingPriorityByWaitTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)

	shortWait := now.Add(-10 * time.Minute)
	longWait := now.Add(-17 * time.Minute)
	appts := []models.Appointment{
		{BaseModel: models.BaseModel{ID: 6}, Status: models.StatusWaiting, ArrivedAt: &shortWait},
		{BaseModel: models.BaseModel{ID: 7}, Status: models.StatusWaiting, ArrivedAt: &longWait},
	}

	out := Aggregate(appts, now)
	require.Len(t, out, 2)

	// The 17-minute wait is HIGH and sorts first.
	assert.Equal(t, "waiting-7", out[0].ID)
	assert.Equal(t, PriorityHigh, out[0].Priority)
	assert.Contains(t, out[0].Message, "waiting 17 min")

	assert.Equal(t, "waiting-6", out[1].ID)
	assert.Equal(t, PriorityMedium, out[1].Priority)
}

func TestAggregate_NonActionableStatusesProduceNothing(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 45, 0, 0, time.Local)
	var appts []models.Appointment
	// Terminal statuses plus IN_PROGRESS: the patient is already in the
	// consultation room, there is nothing for the front desk to chase.
	for _, status := range []models.AppointmentStatus{
		models.StatusInProgress, models.StatusCompleted, models.StatusCancelled, models.StatusNoShow,
	} {
		a := scheduledAppt(8, "2026-03-10", "09:00")
		a.Status = status
		appts = append(appts, a)
	}

	assert.Empty(t, Aggregate(appts, now))
}

func TestAggregate_PriorityOrderingIsStable(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 45, 0, 0, time.Local)
	arrived := now.Add(-20 * time.Minute)
	appts := []models.Appointment{
		scheduledAppt(1, "2026-03-10", "14:00"), // upcoming, MEDIUM
		scheduledAppt(2, "2026-03-10", "09:00"), // starting_soon, HIGH
		{BaseModel: models.BaseModel{ID: 3}, Status: models.StatusWaiting, ArrivedAt: &arrived}, // waiting, HIGH
		scheduledAppt(4, "2026-03-10", "15:00"), // upcoming, MEDIUM
	}

	out := Aggregate(appts, now)
	require.Len(t, out, 4)
	// HIGH first, keeping discovery order within each priority.
	assert.Equal(t, []string{"starting_soon-2", "waiting-3", "upcoming-1", "upcoming-4"},
		[]string{out[0].ID, out[1].ID, out[2].ID, out[3].ID})
}

func TestAggregate_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 45, 0, 0, time.Local)
	arrived := now.Add(-5 * time.Minute)
	appts := []models.Appointment{
		scheduledAppt(1, "2026-03-10", "09:00"),
		{BaseModel: models.BaseModel{ID: 2}, Status: models.StatusWaiting, ArrivedAt: &arrived},
	}

	first := Aggregate(appts, now)
	second := Aggregate(appts, now)
	assert.Equal(t, first, second)
}

func TestAggregate_BoundaryAtThirtyMinutes(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.Local)

	// Exactly 30 minutes out is still starting_soon.
	out := Aggregate([]models.Appointment{scheduledAppt(1, "2026-03-10", "09:00")}, now)
	require.Len(t, out, 1)
	assert.Equal(t, TypeStartingSoon, out[0].Type)

	// 31 minutes out is upcoming.
	out = Aggregate([]models.Appointment{scheduledAppt(2, "2026-03-10", "09:01")}, now)
	require.Len(t, out, 1)
	assert.Equal(t, TypeUpcoming, out[0].Type)
}
