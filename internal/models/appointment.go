package models

import (
	"fmt"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusWaiting    AppointmentStatus = "WAITING"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// Layouts for the date and time-of-day columns. Time is stored as the
// minute-precision slot string so slot comparison is exact string equality.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment represents a scheduled visit. Appointments are never deleted;
// cancellation is a terminal status, not removal.
type Appointment struct {
	BaseModel
	AppointmentNumber string            `gorm:"uniqueIndex;size:32" json:"appointmentNumber"`
	PatientID         uint              `gorm:"index" json:"patientId"`
	DoctorID          uint              `gorm:"index" json:"doctorId"`
	ScheduledDate     string            `gorm:"size:10;index" json:"scheduledDate"` // YYYY-MM-DD
	ScheduledTime     string            `gorm:"size:5" json:"scheduledTime"`        // HH:MM
	DurationMinutes   int               `gorm:"default:30" json:"durationMinutes"`
	Status            AppointmentStatus `gorm:"size:20;default:'SCHEDULED'" json:"status"`
	Reason            string            `gorm:"size:255" json:"reason,omitempty"`
	Symptoms          string            `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis         string            `gorm:"type:text" json:"diagnosis,omitempty"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`
	CancelReason      string            `gorm:"size:255" json:"cancelReason,omitempty"`

	// Lifecycle timestamps, each set once by its transition and never
	// cleared afterwards.
	ArrivedAt   *time.Time `json:"arrivedAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// ScheduledAt combines ScheduledDate and ScheduledTime into one local
// instant, minute precision.
func (a *Appointment) ScheduledAt() (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, a.ScheduledDate+" "+a.ScheduledTime, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule %q %q: %w", a.ScheduledDate, a.ScheduledTime, err)
	}
	return t, nil
}

// IsTerminal reports whether no further status transition is permitted.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// HasOpenAppointments reports whether any appointment in the slice is still
// in a non-terminal status. Used to block archiving a patient who still has
// visits pending.
func HasOpenAppointments(appts []Appointment) bool {
	for _, a := range appts {
		if !a.Status.IsTerminal() {
			return true
		}
	}
	return false
}
