package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/models"
	"hospital-frontdesk-server/internal/utils"
)

// ServiceHandler handles the billable service catalog.
type ServiceHandler struct {
	DB *gorm.DB
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{DB: db}
}

// CreateServiceRequest represents the request body for adding a catalog entry.
type CreateServiceRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice" binding:"gte=0"`
}

// CreateService adds a billable service to the catalog.
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Service
	if err := h.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		utils.BadRequest(c, "A service with this code already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	service := models.Service{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		IsActive:    true,
	}

	if err := h.DB.Create(&service).Error; err != nil {
		utils.InternalServerError(c, "Failed to create service: "+err.Error())
		return
	}

	utils.Created(c, "Service created successfully", service)
}

// GetServices fetches the catalog. ?active=true limits to billable entries.
func (h *ServiceHandler) GetServices(c *gin.Context) {
	query := h.DB.Order("name asc")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch services: "+err.Error())
		return
	}

	utils.Success(c, "Services fetched successfully", services)
}

// GetServiceByID fetches a single catalog entry.
func (h *ServiceHandler) GetServiceByID(c *gin.Context) {
	var service models.Service
	if err := h.DB.First(&service, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Service not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Service fetched successfully", service)
}

// UpdateServiceRequest represents the request body for updating a catalog entry.
type UpdateServiceRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	UnitPrice   *float64 `json:"unitPrice" binding:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}

// UpdateService updates a catalog entry. Prices on existing invoice items
// are unaffected; they copied the price at billing time.
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var service models.Service
	if err := h.DB.First(&service, "id = ?", c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Service not found")
		return
	}

	if req.Name != "" {
		service.Name = req.Name
	}
	if req.Description != "" {
		service.Description = req.Description
	}
	if req.UnitPrice != nil {
		service.UnitPrice = *req.UnitPrice
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&service).Error; err != nil {
		utils.InternalServerError(c, "Failed to update service: "+err.Error())
		return
	}

	utils.Success(c, "Service updated successfully", service)
}
