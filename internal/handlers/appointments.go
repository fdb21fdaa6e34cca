package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/apperr"
	"hospital-frontdesk-server/internal/models"
	"hospital-frontdesk-server/internal/scheduling"
	"hospital-frontdesk-server/internal/utils"
)

// AppointmentHandler handles appointment booking and lifecycle requests.
// Every status change goes through the lifecycle machine and every booking
// through the slot checker; handlers never poke Status directly.
type AppointmentHandler struct {
	DB        *gorm.DB
	Slots     *scheduling.SlotChecker
	Lifecycle *scheduling.Lifecycle
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, slots *scheduling.SlotChecker, lifecycle *scheduling.Lifecycle) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Slots: slots, Lifecycle: lifecycle}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	PatientID       uint   `json:"patientId" binding:"required"`
	DoctorID        uint   `json:"doctorId" binding:"required"`
	ScheduledDate   string `json:"scheduledDate" binding:"required"` // YYYY-MM-DD
	ScheduledTime   string `json:"scheduledTime" binding:"required"` // HH:MM
	DurationMinutes int    `json:"durationMinutes"`
	Reason          string `json:"reason"`
	Symptoms        string `json:"symptoms"`
	Notes           string `json:"notes"`
}

// CreateAppointment books a new appointment after checking the slot is free.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if _, err := time.Parse(models.DateLayout, req.ScheduledDate); err != nil {
		utils.BadRequest(c, "Invalid scheduledDate, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse(models.TimeLayout, req.ScheduledTime); err != nil {
		utils.BadRequest(c, "Invalid scheduledTime, expected HH:MM")
		return
	}

	// Verify patient exists
	var patient models.Patient
	if err := h.DB.First(&patient, req.PatientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}
	// Verify doctor exists and is bookable
	var doctor models.Doctor
	if err := h.DB.First(&doctor, req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}
	if !doctor.IsActive {
		utils.BadRequest(c, "This doctor is not accepting appointments")
		return
	}

	available, err := h.Slots.IsSlotAvailable(c.Request.Context(), req.DoctorID, req.ScheduledDate, req.ScheduledTime, 0)
	if err != nil {
		utils.InternalServerError(c, "Failed to check slot availability: "+err.Error())
		return
	}
	if !available {
		utils.DomainError(c, apperr.SlotTaken(req.DoctorID, req.ScheduledDate, req.ScheduledTime))
		return
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 30
	}

	appointment := models.Appointment{
		AppointmentNumber: models.NewEntityNumber("APT"),
		PatientID:         req.PatientID,
		DoctorID:          req.DoctorID,
		ScheduledDate:     req.ScheduledDate,
		ScheduledTime:     req.ScheduledTime,
		DurationMinutes:   duration,
		Status:            models.StatusScheduled,
		Reason:            req.Reason,
		Symptoms:          req.Symptoms,
		Notes:             req.Notes,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetAppointments fetches appointments, filterable by ?date=, ?doctorId=
// and ?status=.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	query := h.DB.Preload("Patient").Preload("Doctor").
		Order("scheduled_date asc, scheduled_time asc")

	if date := c.Query("date"); date != "" {
		query = query.Where("scheduled_date = ?", date)
	}
	if doctorID := c.Query("doctorId"); doctorID != "" {
		query = query.Where("doctor_id = ?", doctorID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor").First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// MarkArrived checks the patient in: SCHEDULED -> WAITING.
func (h *AppointmentHandler) MarkArrived(c *gin.Context) {
	h.transition(c, "Patient checked in", func(a *models.Appointment) error {
		return h.Lifecycle.MarkArrived(a)
	})
}

// StartConsultation moves WAITING -> IN_PROGRESS.
func (h *AppointmentHandler) StartConsultation(c *gin.Context) {
	h.transition(c, "Consultation started", func(a *models.Appointment) error {
		return h.Lifecycle.StartConsultation(a)
	})
}

// CompleteConsultationRequest carries optional clinical outcome fields.
type CompleteConsultationRequest struct {
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

// CompleteConsultation moves IN_PROGRESS -> COMPLETED.
func (h *AppointmentHandler) CompleteConsultation(c *gin.Context) {
	var req CompleteConsultationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request payload: "+err.Error())
			return
		}
	}
	h.transition(c, "Consultation completed", func(a *models.Appointment) error {
		if err := h.Lifecycle.CompleteConsultation(a); err != nil {
			return err
		}
		if req.Diagnosis != "" {
			a.Diagnosis = req.Diagnosis
		}
		if req.Notes != "" {
			a.Notes = req.Notes
		}
		return nil
	})
}

// CancelAppointmentRequest carries the optional cancellation reason.
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelAppointment moves SCHEDULED or WAITING -> CANCELLED.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request payload: "+err.Error())
			return
		}
	}
	h.transition(c, "Appointment cancelled", func(a *models.Appointment) error {
		return h.Lifecycle.Cancel(a, req.Reason)
	})
}

// MarkNoShow marks a patient who never showed up.
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, "Appointment marked as no-show", func(a *models.Appointment) error {
		return h.Lifecycle.MarkNoShow(a)
	})
}

// transition loads the appointment, applies one lifecycle operation and
// persists the result. The operation either fully applies or the row is
// left untouched.
func (h *AppointmentHandler) transition(c *gin.Context, message string, op func(*models.Appointment) error) {
	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := op(&appointment); err != nil {
		utils.DomainError(c, err)
		return
	}

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, message, appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	ScheduledDate string `json:"scheduledDate" binding:"required"`
	ScheduledTime string `json:"scheduledTime" binding:"required"`
	Notes         string `json:"notes"`
}

// RescheduleAppointment moves a SCHEDULED appointment to a new free slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if _, err := time.Parse(models.DateLayout, req.ScheduledDate); err != nil {
		utils.BadRequest(c, "Invalid scheduledDate, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse(models.TimeLayout, req.ScheduledTime); err != nil {
		utils.BadRequest(c, "Invalid scheduledTime, expected HH:MM")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if appointment.Status != models.StatusScheduled {
		utils.Conflict(c, "Only scheduled appointments can be rescheduled")
		return
	}

	available, err := h.Slots.IsSlotAvailable(c.Request.Context(), appointment.DoctorID, req.ScheduledDate, req.ScheduledTime, appointment.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to check slot availability: "+err.Error())
		return
	}
	if !available {
		utils.DomainError(c, apperr.SlotTaken(appointment.DoctorID, req.ScheduledDate, req.ScheduledTime))
		return
	}

	appointment.ScheduledDate = req.ScheduledDate
	appointment.ScheduledTime = req.ScheduledTime
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to reschedule appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// Slot is one bookable position on a doctor's day grid.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// GetAvailability returns the 30-minute slot grid for ?doctorId= and
// ?date=, with each slot's availability.
func (h *AppointmentHandler) GetAvailability(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		utils.BadRequest(c, "doctorId and date query parameters are required")
		return
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var booked []models.Appointment
	if err := h.DB.Where("doctor_id = ? AND scheduled_date = ? AND status NOT IN ?",
		doctorID, date,
		[]models.AppointmentStatus{models.StatusCancelled, models.StatusNoShow}).
		Find(&booked).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	taken := make(map[string]bool, len(booked))
	for _, appt := range booked {
		taken[appt.ScheduledTime] = true
	}

	// Front-desk booking grid: 09:00 to 17:00 in 30-minute steps.
	var slots []Slot
	start := time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC)
	for t := start; t.Before(end); t = t.Add(30 * time.Minute) {
		ts := t.Format(models.TimeLayout)
		slots = append(slots, Slot{Time: ts, Available: !taken[ts]})
	}

	utils.Success(c, "Availability fetched successfully", slots)
}
