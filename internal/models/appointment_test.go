package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledAtCombinesDateAndTime(t *testing.T) {
	appt := Appointment{ScheduledDate: "2026-03-10", ScheduledTime: "09:00"}

	at, err := appt.ScheduledAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local), at)
}

func TestScheduledAtRejectsBadInput(t *testing.T) {
	for _, appt := range []Appointment{
		{ScheduledDate: "10/03/2026", ScheduledTime: "09:00"},
		{ScheduledDate: "2026-03-10", ScheduledTime: "9am"},
		{},
	} {
		_, err := appt.ScheduledAt()
		assert.Error(t, err)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusScheduled.IsTerminal())
	assert.False(t, StatusWaiting.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestHasOpenAppointments(t *testing.T) {
	tests := []struct {
		name     string
		statuses []AppointmentStatus
		want     bool
	}{
		{"no appointments", nil, false},
		{"all settled", []AppointmentStatus{StatusCompleted, StatusCancelled, StatusNoShow}, false},
		{"one scheduled among settled", []AppointmentStatus{StatusCompleted, StatusScheduled}, true},
		{"waiting", []AppointmentStatus{StatusWaiting}, true},
		{"in progress", []AppointmentStatus{StatusInProgress}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := make([]Appointment, len(tt.statuses))
			for i, s := range tt.statuses {
				appts[i] = Appointment{Status: s}
			}
			assert.Equal(t, tt.want, HasOpenAppointments(appts))
		})
	}
}

func TestNewEntityNumber(t *testing.T) {
	n := NewEntityNumber("INV")
	assert.True(t, strings.HasPrefix(n, "INV-"))
	assert.Len(t, n, len("INV-")+8+1+6)

	// Random suffix keeps consecutive numbers distinct.
	assert.NotEqual(t, n, NewEntityNumber("INV"))
}
