package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/models"
	"hospital-frontdesk-server/internal/utils"
)

// DoctorHandler handles the doctor roster.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// CreateDoctorRequest represents the request body for adding a doctor.
type CreateDoctorRequest struct {
	FirstName       string  `json:"firstName" binding:"required"`
	LastName        string  `json:"lastName" binding:"required"`
	Specialty       string  `json:"specialty"`
	PhoneNumber     string  `json:"phoneNumber"`
	Email           string  `json:"email" binding:"omitempty,email"`
	ConsultationFee float64 `json:"consultationFee" binding:"gte=0"`
}

// CreateDoctor adds a doctor to the roster.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor := models.Doctor{
		DoctorNumber:    models.NewEntityNumber("DOC"),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Specialty:       req.Specialty,
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		ConsultationFee: req.ConsultationFee,
		IsActive:        true,
	}

	if err := h.DB.Create(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	utils.Created(c, "Doctor created successfully", doctor)
}

// GetDoctors fetches the roster. ?active=true limits to bookable doctors.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	query := h.DB.Order("last_name asc, first_name asc")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetDoctorByID fetches a single doctor.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

// UpdateDoctorRequest represents the request body for updating a doctor.
type UpdateDoctorRequest struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Specialty       string   `json:"specialty"`
	PhoneNumber     string   `json:"phoneNumber"`
	Email           string   `json:"email" binding:"omitempty,email"`
	ConsultationFee *float64 `json:"consultationFee" binding:"omitempty,gte=0"`
	IsActive        *bool    `json:"isActive"`
}

// UpdateDoctor updates roster details; setting isActive=false retires the
// doctor from booking without touching existing appointments.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Doctor not found")
		return
	}

	if req.FirstName != "" {
		doctor.FirstName = req.FirstName
	}
	if req.LastName != "" {
		doctor.LastName = req.LastName
	}
	if req.Specialty != "" {
		doctor.Specialty = req.Specialty
	}
	if req.PhoneNumber != "" {
		doctor.PhoneNumber = req.PhoneNumber
	}
	if req.Email != "" {
		doctor.Email = req.Email
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor updated successfully", doctor)
}
