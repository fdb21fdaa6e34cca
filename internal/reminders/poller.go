package reminders

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/models"
)

// AppointmentSource is the slice of storage the poller needs: every
// appointment still worth watching (non-terminal).
type AppointmentSource interface {
	Active(ctx context.Context) ([]models.Appointment, error)
}

// Poller recomputes the reminder list on a fixed interval and caches the
// latest result for the HTTP layer. Each pass reads a fresh snapshot and
// replaces the list wholesale.
type Poller struct {
	store    AppointmentSource
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger

	mu      sync.RWMutex
	current []Reminder
}

// NewPoller creates a Poller. interval <= 0 falls back to 60 seconds; now
// may be nil for the wall clock.
func NewPoller(store AppointmentSource, interval time.Duration, now func() time.Time, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{store: store, interval: interval, now: now, log: log}
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
// Intended to run in its own goroutine.
func (p *Poller) Run(ctx context.Context) {
	p.Refresh(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Info("reminder poller stopped")
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh recomputes the reminder list once. Exposed so tests and the HTTP
// layer can force a pass without waiting for the ticker.
func (p *Poller) Refresh(ctx context.Context) {
	appointments, err := p.store.Active(ctx)
	if err != nil {
		// Keep the previous list; the next tick retries.
		p.log.Warn("reminder refresh failed", zap.Error(err))
		return
	}
	list := Aggregate(appointments, p.now())

	p.mu.Lock()
	p.current = list
	p.mu.Unlock()
	p.log.Debug("reminders refreshed", zap.Int("count", len(list)))
}

// Current returns the latest reminder list. Never nil.
func (p *Poller) Current() []Reminder {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return []Reminder{}
	}
	out := make([]Reminder, len(p.current))
	copy(out, p.current)
	return out
}

// GormAppointmentSource reads non-terminal appointments through gorm with
// patient and doctor preloaded for message text.
type GormAppointmentSource struct {
	DB *gorm.DB
}

func (g *GormAppointmentSource) Active(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := g.DB.WithContext(ctx).
		Preload("Patient").Preload("Doctor").
		Where("status IN ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusWaiting}).
		Order("scheduled_date asc, scheduled_time asc").
		Find(&appts).Error
	return appts, err
}
