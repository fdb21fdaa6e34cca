package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-frontdesk-server/internal/models"
)

type fakeSource struct {
	appointments []models.Appointment
	err          error
	calls        int
}

func (f *fakeSource) Active(ctx context.Context) ([]models.Appointment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.appointments, nil
}

func TestPoller_RefreshReplacesListWholesale(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 45, 0, 0, time.Local)
	source := &fakeSource{appointments: []models.Appointment{
		scheduledAppt(1, "2026-03-10", "09:00"),
	}}
	p := NewPoller(source, time.Minute, func() time.Time { return now }, nil)

	p.Refresh(context.Background())
	list := p.Current()
	require.Len(t, list, 1)
	assert.Equal(t, "starting_soon-1", list[0].ID)

	// The appointment checks in; next pass drops the old reminder entirely.
	arrived := now
	source.appointments = []models.Appointment{{
		BaseModel: models.BaseModel{ID: 1},
		Status:    models.StatusWaiting,
		ArrivedAt: &arrived,
	}}
	p.Refresh(context.Background())
	list = p.Current()
	require.Len(t, list, 1)
	assert.Equal(t, "waiting-1", list[0].ID)
}

func TestPoller_KeepsPreviousListOnStoreError(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 45, 0, 0, time.Local)
	source := &fakeSource{appointments: []models.Appointment{
		scheduledAppt(1, "2026-03-10", "09:00"),
	}}
	p := NewPoller(source, time.Minute, func() time.Time { return now }, nil)

	p.Refresh(context.Background())
	require.Len(t, p.Current(), 1)

	source.err = errors.New("db down")
	p.Refresh(context.Background())
	assert.Len(t, p.Current(), 1, "stale list is better than no list")
}

func TestPoller_CurrentNeverNil(t *testing.T) {
	p := NewPoller(&fakeSource{}, time.Minute, nil, nil)
	assert.NotNil(t, p.Current())
	assert.Empty(t, p.Current())
}

func TestPoller_RunStopsOnContextCancel(t *testing.T) {
	source := &fakeSource{}
	p := NewPoller(source, 10*time.Millisecond, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// Let at least the initial refresh happen, then stop.
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
	assert.GreaterOrEqual(t, source.calls, 1)
}
