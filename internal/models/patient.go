package models

import (
	"time"
)

// Patient represents a registered patient record.
type Patient struct {
	BaseModel
	PatientNumber string     `gorm:"uniqueIndex;size:32" json:"patientNumber"`
	FirstName     string     `gorm:"size:100;not null" json:"firstName"`
	LastName      string     `gorm:"size:100;not null" json:"lastName"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Gender        string     `gorm:"size:20" json:"gender,omitempty"`
	PhoneNumber   string     `gorm:"size:30" json:"phoneNumber,omitempty"`
	Email         string     `gorm:"size:255" json:"email,omitempty"`
	Address       string     `gorm:"size:255" json:"address,omitempty"`
	BloodGroup    string     `gorm:"size:10" json:"bloodGroup,omitempty"`
	Allergies     string     `gorm:"type:text" json:"allergies,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"isActive"`

	// Relations (not always preloaded)
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
	Invoices     []Invoice     `gorm:"foreignKey:PatientID" json:"-"`
}

// FullName returns the display name used on invoices and reminders.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
