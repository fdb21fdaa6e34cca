package models

// Service is a billable catalog entry (consultation, lab test, procedure).
// Invoice items reference a service for prefilling but keep their own copy
// of description and price so later catalog edits don't rewrite history.
type Service struct {
	BaseModel
	Code        string  `gorm:"uniqueIndex;size:32" json:"code"`
	Name        string  `gorm:"size:150;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
}
