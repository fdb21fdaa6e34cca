package scheduling

import (
	"context"

	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/models"
)

// AppointmentSource is the slice of storage the slot checker needs.
type AppointmentSource interface {
	ByDoctorAndDate(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error)
}

// SlotChecker decides whether a (doctor, date, time) slot is free. It
// compares exact time strings only; a 60-minute appointment at 09:00 does
// not block a 09:30 booking. Cancelled and no-show appointments release
// their slot.
type SlotChecker struct {
	store AppointmentSource
}

// NewSlotChecker creates a SlotChecker over the given store.
func NewSlotChecker(store AppointmentSource) *SlotChecker {
	return &SlotChecker{store: store}
}

// IsSlotAvailable reports whether the slot is free. excludeID skips one
// appointment id, so a reschedule does not collide with itself; pass 0 for
// new bookings.
func (s *SlotChecker) IsSlotAvailable(ctx context.Context, doctorID uint, date, timeStr string, excludeID uint) (bool, error) {
	existing, err := s.store.ByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return false, err
	}
	for _, appt := range existing {
		if appt.ID == excludeID {
			continue
		}
		if appt.Status == models.StatusCancelled || appt.Status == models.StatusNoShow {
			continue
		}
		if appt.ScheduledTime == timeStr {
			return false, nil
		}
	}
	return true, nil
}

// GormAppointmentSource reads appointments through gorm.
type GormAppointmentSource struct {
	DB *gorm.DB
}

func (g *GormAppointmentSource) ByDoctorAndDate(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := g.DB.WithContext(ctx).
		Where("doctor_id = ? AND scheduled_date = ?", doctorID, date).
		Find(&appts).Error
	return appts, err
}
