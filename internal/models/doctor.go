package models

// Doctor represents a practitioner whose time slots can be booked.
type Doctor struct {
	BaseModel
	DoctorNumber    string  `gorm:"uniqueIndex;size:32" json:"doctorNumber"`
	FirstName       string  `gorm:"size:100;not null" json:"firstName"`
	LastName        string  `gorm:"size:100;not null" json:"lastName"`
	Specialty       string  `gorm:"size:100" json:"specialty,omitempty"`
	PhoneNumber     string  `gorm:"size:30" json:"phoneNumber,omitempty"`
	Email           string  `gorm:"size:255" json:"email,omitempty"`
	ConsultationFee float64 `json:"consultationFee"`
	IsActive        bool    `gorm:"default:true" json:"isActive"`

	// Relations (not always preloaded)
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
}

// FullName returns the display name used in schedules and reminders.
func (d *Doctor) FullName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}
