package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-frontdesk-server/internal/billing"
	"hospital-frontdesk-server/internal/config"
	"hospital-frontdesk-server/internal/handlers"
	"hospital-frontdesk-server/internal/middleware"
	"hospital-frontdesk-server/internal/models"
	"hospital-frontdesk-server/internal/reminders"
	"hospital-frontdesk-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, poller *reminders.Poller) {
	// Core engines
	lifecycle := scheduling.NewLifecycle()
	slots := scheduling.NewSlotChecker(&scheduling.GormAppointmentSource{DB: db})
	engine := billing.NewEngine()
	engine.AllowOverpayment = cfg.BillingAllowOverpayment

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, slots, lifecycle)
	invoiceHandler := handlers.NewInvoiceHandler(db, engine, cfg)
	reminderHandler := handlers.NewReminderHandler(poller)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Staff account management (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeactivateUser)
		}

		// Patient registry
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), patientHandler.DeletePatient)
		}

		// Doctor roster
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.CreateDoctor)
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
			doctorRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.UpdateDoctor)
		}

		// Billable service catalog
		serviceRoutes := private.Group("/services")
		{
			serviceRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), serviceHandler.CreateService)
			serviceRoutes.GET("", serviceHandler.GetServices)
			serviceRoutes.GET("/:id", serviceHandler.GetServiceByID)
			serviceRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), serviceHandler.UpdateService)
		}

		// Appointments: booking, lifecycle, availability
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/availability", appointmentHandler.GetAvailability)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/arrive", appointmentHandler.MarkArrived)
			appointmentRoutes.PATCH("/:id/start", appointmentHandler.StartConsultation)
			appointmentRoutes.PATCH("/:id/complete", appointmentHandler.CompleteConsultation)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/no-show", appointmentHandler.MarkNoShow)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
		}

		// Invoices and payments
		invoiceRoutes := private.Group("/invoices")
		{
			invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
			invoiceRoutes.GET("", invoiceHandler.GetInvoices)
			invoiceRoutes.POST("/preview", invoiceHandler.Preview)
			invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
			invoiceRoutes.POST("/:id/items", invoiceHandler.AddItem)
			invoiceRoutes.PATCH("/:id/discount", invoiceHandler.ApplyDiscount)
			invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
			invoiceRoutes.POST("/:id/cancel", invoiceHandler.CancelInvoice)
		}

		// Front-desk reminder feed
		private.GET("/reminders", reminderHandler.GetReminders)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
