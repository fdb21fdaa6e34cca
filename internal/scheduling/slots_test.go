package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-frontdesk-server/internal/models"
)

type fakeAppointmentSource struct {
	appointments []models.Appointment
	err          error
}

func (f *fakeAppointmentSource) ByDoctorAndDate(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.ScheduledDate == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestSlotChecker_ExactCollision(t *testing.T) {
	store := &fakeAppointmentSource{appointments: []models.Appointment{
		{BaseModel: models.BaseModel{ID: 1}, DoctorID: 7, ScheduledDate: "2026-03-10", ScheduledTime: "09:00", Status: models.StatusScheduled},
	}}
	checker := NewSlotChecker(store)

	free, err := checker.IsSlotAvailable(context.Background(), 7, "2026-03-10", "09:00", 0)
	require.NoError(t, err)
	assert.False(t, free, "same doctor, date and time must conflict")
}

func TestSlotChecker_DifferentTimeOrDoctorIsFree(t *testing.T) {
	store := &fakeAppointmentSource{appointments: []models.Appointment{
		{BaseModel: models.BaseModel{ID: 1}, DoctorID: 7, ScheduledDate: "2026-03-10", ScheduledTime: "09:00", DurationMinutes: 60, Status: models.StatusScheduled},
	}}
	checker := NewSlotChecker(store)

	// Only exact time strings collide; a 60-minute 09:00 appointment does
	// not block 09:30.
	free, err := checker.IsSlotAvailable(context.Background(), 7, "2026-03-10", "09:30", 0)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = checker.IsSlotAvailable(context.Background(), 8, "2026-03-10", "09:00", 0)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = checker.IsSlotAvailable(context.Background(), 7, "2026-03-11", "09:00", 0)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestSlotChecker_CancelledAndNoShowRelease(t *testing.T) {
	store := &fakeAppointmentSource{appointments: []models.Appointment{
		{BaseModel: models.BaseModel{ID: 1}, DoctorID: 7, ScheduledDate: "2026-03-10", ScheduledTime: "09:00", Status: models.StatusCancelled},
		{BaseModel: models.BaseModel{ID: 2}, DoctorID: 7, ScheduledDate: "2026-03-10", ScheduledTime: "10:00", Status: models.StatusNoShow},
	}}
	checker := NewSlotChecker(store)

	for _, ts := range []string{"09:00", "10:00"} {
		free, err := checker.IsSlotAvailable(context.Background(), 7, "2026-03-10", ts, 0)
		require.NoError(t, err)
		assert.True(t, free, "slot %s should be released", ts)
	}
}

func TestSlotChecker_CompletedStillBlocks(t *testing.T) {
	store := &fakeAppointmentSource{appointments: []models.Appointment{
		{BaseModel: models.BaseModel{ID: 1}, DoctorID: 7, ScheduledDate: "2026-03-10", ScheduledTime: "09:00", Status: models.StatusCompleted},
	}}
	checker := NewSlotChecker(store)

	free, err := checker.IsSlotAvailable(context.Background(), 7, "2026-03-10", "09:00", 0)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestSlotChecker_ExcludeSelfOnReschedule(t *testing.T) {
	store := &fakeAppointmentSource{appointments: []models.Appointment{
		{BaseModel: models.BaseModel{ID: 5}, DoctorID: 7, ScheduledDate: "2026-03-10", ScheduledTime: "09:00", Status: models.StatusScheduled},
	}}
	checker := NewSlotChecker(store)

	free, err := checker.IsSlotAvailable(context.Background(), 7, "2026-03-10", "09:00", 5)
	require.NoError(t, err)
	assert.True(t, free, "an appointment must not conflict with itself")
}

func TestSlotChecker_StoreErrorPropagates(t *testing.T) {
	store := &fakeAppointmentSource{err: errors.New("connection lost")}
	checker := NewSlotChecker(store)

	_, err := checker.IsSlotAvailable(context.Background(), 7, "2026-03-10", "09:00", 0)
	assert.Error(t, err)
}
