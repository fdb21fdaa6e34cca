package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/models"
	"hospital-frontdesk-server/internal/utils"
)

// PatientHandler handles patient record management at the front desk.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// CreatePatientRequest represents the request body for registering a patient.
type CreatePatientRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	BloodGroup  string `json:"bloodGroup"`
	Allergies   string `json:"allergies"`
}

// CreatePatient registers a new patient.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient := models.Patient{
		PatientNumber: models.NewEntityNumber("PAT"),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        req.Gender,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		Address:       req.Address,
		BloodGroup:    req.BloodGroup,
		Allergies:     req.Allergies,
		IsActive:      true,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse(models.DateLayout, req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "Invalid dateOfBirth, expected YYYY-MM-DD")
			return
		}
		patient.DateOfBirth = &dob
	}

	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}

	utils.Created(c, "Patient registered successfully", patient)
}

// GetPatients fetches all patients, optionally filtered by a name/number
// query string. ?active=true hides archived records.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	query := h.DB.Order("last_name asc, first_name asc")

	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR patient_number LIKE ? OR phone_number LIKE ?",
			like, like, like, like)
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID fetches a single patient.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// UpdatePatientRequest represents the request body for updating a patient.
type UpdatePatientRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	BloodGroup  string `json:"bloodGroup"`
	Allergies   string `json:"allergies"`
}

// UpdatePatient updates a patient record.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Patient not found")
		return
	}

	if req.FirstName != "" {
		patient.FirstName = req.FirstName
	}
	if req.LastName != "" {
		patient.LastName = req.LastName
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(models.DateLayout, req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "Invalid dateOfBirth, expected YYYY-MM-DD")
			return
		}
		patient.DateOfBirth = &dob
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	if req.PhoneNumber != "" {
		patient.PhoneNumber = req.PhoneNumber
	}
	if req.Email != "" {
		patient.Email = req.Email
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.BloodGroup != "" {
		patient.BloodGroup = req.BloodGroup
	}
	if req.Allergies != "" {
		patient.Allergies = req.Allergies
	}

	if err := h.DB.Save(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient archives a patient record instead of removing the row, so
// past appointments and invoices keep their references. Patients with open
// appointments cannot be archived.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var appts []models.Appointment
	if err := h.DB.Where("patient_id = ?", patient.ID).Find(&appts).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	if models.HasOpenAppointments(appts) {
		utils.Conflict(c, "Patient has open appointments and cannot be archived")
		return
	}

	patient.IsActive = false
	if err := h.DB.Save(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to archive patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient archived successfully", patient)
}
