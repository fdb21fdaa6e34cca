package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/billing"
	"hospital-frontdesk-server/internal/config"
	"hospital-frontdesk-server/internal/models"
	"hospital-frontdesk-server/internal/utils"
)

// InvoiceHandler handles invoice and payment requests. All monetary
// mutation goes through the billing engine; the handler only loads,
// delegates and persists.
type InvoiceHandler struct {
	DB     *gorm.DB
	Engine *billing.Engine
	Cfg    *config.Config
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(db *gorm.DB, engine *billing.Engine, cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Engine: engine, Cfg: cfg}
}

// InvoiceItemRequest is one line item in a create or preview request.
type InvoiceItemRequest struct {
	ServiceID   *uint   `json:"serviceId"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unitPrice"`
}

// CreateInvoiceRequest represents the request body for opening an invoice.
type CreateInvoiceRequest struct {
	PatientID     uint                 `json:"patientId" binding:"required"`
	AppointmentID *uint                `json:"appointmentId"`
	TaxRate       *float64             `json:"taxRate" binding:"omitempty,gte=0,lt=1"`
	Items         []InvoiceItemRequest `json:"items"`
}

// CreateInvoice opens an invoice for a patient, optionally linked to an
// appointment and seeded with initial items.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, req.PatientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	if req.AppointmentID != nil {
		var appointment models.Appointment
		if err := h.DB.First(&appointment, *req.AppointmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Appointment not found")
			} else {
				utils.InternalServerError(c, "Database error verifying appointment: "+err.Error())
			}
			return
		}
	}

	taxRate := h.Cfg.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	invoice := models.Invoice{
		InvoiceNumber: models.NewEntityNumber("INV"),
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		DiscountType:  models.DiscountFixed,
		TaxRate:       taxRate,
	}

	for _, itemReq := range req.Items {
		item, err := h.resolveItem(itemReq)
		if err != nil {
			utils.InternalServerError(c, "Failed to resolve service: "+err.Error())
			return
		}
		if err := h.Engine.AddItem(&invoice, item); err != nil {
			utils.DomainError(c, err)
			return
		}
	}
	billing.Recalculate(&invoice)

	if err := h.DB.Create(&invoice).Error; err != nil {
		utils.InternalServerError(c, "Failed to create invoice: "+err.Error())
		return
	}

	utils.Created(c, "Invoice created successfully", invoice)
}

// resolveItem turns an item request into an InvoiceItem, pulling
// description and price from the service catalog when a serviceId is given
// and the request leaves them blank.
func (h *InvoiceHandler) resolveItem(req InvoiceItemRequest) (models.InvoiceItem, error) {
	item := models.InvoiceItem{
		ServiceID:   req.ServiceID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	}
	if req.ServiceID != nil {
		var service models.Service
		if err := h.DB.First(&service, *req.ServiceID).Error; err != nil {
			return item, err
		}
		if item.Description == "" {
			item.Description = service.Name
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = service.UnitPrice
		}
	}
	return item, nil
}

// GetInvoices fetches invoices, filterable by ?patientId= and ?status=.
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	query := h.DB.Preload("Items").Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("paid_at asc")
	}).Preload("Patient").Order("created_at desc")

	if patientID := c.Query("patientId"); patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch invoices: "+err.Error())
		return
	}

	utils.Success(c, "Invoices fetched successfully", invoices)
}

// GetInvoiceByID fetches a single invoice with items and payment history.
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}
	utils.Success(c, "Invoice fetched successfully", invoice)
}

// AddItem appends a line item to an open invoice.
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	var req InvoiceItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	item, err := h.resolveItem(req)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve service: "+err.Error())
		return
	}

	if err := h.Engine.AddItem(invoice, item); err != nil {
		utils.DomainError(c, err)
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		newItem := &invoice.Items[len(invoice.Items)-1]
		if err := tx.Create(newItem).Error; err != nil {
			return err
		}
		return persistTotals(tx, invoice)
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to save invoice item: "+err.Error())
		return
	}

	utils.Success(c, "Item added successfully", invoice)
}

// ApplyDiscountRequest represents the request body for setting a discount.
type ApplyDiscountRequest struct {
	DiscountType  string  `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue float64 `json:"discountValue"`
}

// ApplyDiscount sets the discount on an open invoice.
func (h *InvoiceHandler) ApplyDiscount(c *gin.Context) {
	var req ApplyDiscountRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	if err := h.Engine.ApplyDiscount(invoice, models.DiscountType(req.DiscountType), req.DiscountValue); err != nil {
		utils.DomainError(c, err)
		return
	}

	if err := persistTotals(h.DB, invoice); err != nil {
		utils.InternalServerError(c, "Failed to save discount: "+err.Error())
		return
	}

	utils.Success(c, "Discount applied successfully", invoice)
}

// RecordPaymentRequest represents the request body for recording a payment.
type RecordPaymentRequest struct {
	Amount    float64 `json:"amount" binding:"required"`
	Method    string  `json:"method" binding:"required,oneof=cash card transfer insurance"`
	Reference string  `json:"reference"`
	Notes     string  `json:"notes"`
}

// RecordPayment records money received against an invoice.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	payment, err := h.Engine.RecordPayment(invoice, req.Amount, models.PaymentMethod(req.Method), req.Reference, req.Notes)
	if err != nil {
		utils.DomainError(c, err)
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return persistTotals(tx, invoice)
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to save payment: "+err.Error())
		return
	}

	utils.Success(c, "Payment recorded successfully", invoice)
}

// CancelInvoice voids an unpaid invoice.
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	if err := h.Engine.CancelInvoice(invoice); err != nil {
		utils.DomainError(c, err)
		return
	}

	if err := persistTotals(h.DB, invoice); err != nil {
		utils.InternalServerError(c, "Failed to cancel invoice: "+err.Error())
		return
	}

	utils.Success(c, "Invoice cancelled successfully", invoice)
}

// PreviewRequest represents the request body for a totals preview.
type PreviewRequest struct {
	Items         []InvoiceItemRequest `json:"items" binding:"required"`
	DiscountType  string               `json:"discountType" binding:"omitempty,oneof=percentage fixed"`
	DiscountValue float64              `json:"discountValue"`
	TaxRate       float64              `json:"taxRate" binding:"gte=0,lt=1"`
}

// Preview computes invoice totals without persisting anything, for live
// display while the front desk is still filling the form.
func (h *InvoiceHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	items := make([]models.InvoiceItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := h.resolveItem(itemReq)
		if err != nil {
			utils.InternalServerError(c, "Failed to resolve service: "+err.Error())
			return
		}
		items = append(items, item)
	}

	discountType := models.DiscountType(req.DiscountType)
	if discountType == "" {
		discountType = models.DiscountFixed
	}
	totals := billing.ComputeTotals(items, discountType, req.DiscountValue, req.TaxRate, nil)

	utils.Success(c, "Totals computed", totals)
}

// loadInvoice loads the invoice in the path with items and payments, or
// writes the error response and returns ok=false.
func (h *InvoiceHandler) loadInvoice(c *gin.Context) (*models.Invoice, bool) {
	var invoice models.Invoice
	err := h.DB.Preload("Items").Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("paid_at asc")
	}).Preload("Patient").First(&invoice, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Invoice not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &invoice, true
}

// persistTotals writes the derived fields and status back to the invoice
// row. Items and payments are persisted separately; this never touches
// them.
func persistTotals(tx *gorm.DB, inv *models.Invoice) error {
	return tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]interface{}{
		"discount_type":   inv.DiscountType,
		"discount_value":  inv.DiscountValue,
		"subtotal":        inv.Subtotal,
		"discount_amount": inv.DiscountAmount,
		"tax_amount":      inv.TaxAmount,
		"total_amount":    inv.TotalAmount,
		"paid_amount":     inv.PaidAmount,
		"balance_amount":  inv.BalanceAmount,
		"status":          inv.Status,
		"cancelled_at":    inv.CancelledAt,
	}).Error
}
