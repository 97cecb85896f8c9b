package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	"github.com/BruksfildServices01/booking-platform/internal/config"
	"github.com/BruksfildServices01/booking-platform/internal/handlers"
	infraRepo "github.com/BruksfildServices01/booking-platform/internal/infra/repository"
	"github.com/BruksfildServices01/booking-platform/internal/middleware"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/notify"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
	"github.com/BruksfildServices01/booking-platform/internal/token"
	ucAppointment "github.com/BruksfildServices01/booking-platform/internal/usecase/appointment"
	ucChangeRequest "github.com/BruksfildServices01/booking-platform/internal/usecase/changerequest"
	ucDashboard "github.com/BruksfildServices01/booking-platform/internal/usecase/dashboard"
	ucEarnings "github.com/BruksfildServices01/booking-platform/internal/usecase/earnings"
	ucVerification "github.com/BruksfildServices01/booking-platform/internal/usecase/verification"
	"github.com/BruksfildServices01/booking-platform/internal/validators"
)

// Deps são os singletons montados no main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Audit    *audit.Dispatcher
	OTPs     otp.Store
	Notifier notify.Notifier
	Clock    timezone.Clock

	// opcional; sem Redis não há rate limit nas rotas de OTP
	Redis *redis.Client
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Metrics(),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.OwnerTokenTTL, cfg.PhoneTokenTTL)
	phones := validators.NewPhoneNormalizer(cfg.PhoneRegions)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	earningsUC := ucEarnings.NewGetEarnings(appointmentRepo, d.Clock)

	transitionUC := ucAppointment.NewTransition(
		appointmentRepo,
		d.Audit,
		d.Notifier,
		earningsUC,
		d.Clock,
		nil,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)

	publicUC := handlers.PublicUseCases{
		Availability:      ucAppointment.NewGetAvailability(appointmentRepo, d.Clock),
		RequestOTP:        ucVerification.NewRequestOTP(d.OTPs, d.Notifier, nil, cfg.OTPTTL, cfg.ExposeOTP),
		VerifyOTP:         ucVerification.NewVerifyOTP(d.OTPs, tokens),
		ClientDetails:     ucAppointment.NewSubmitClientDetails(appointmentRepo, d.Audit),
		Reserve:           ucAppointment.NewReserve(appointmentRepo, d.Audit, d.Clock),
		ClientAppointment: ucAppointment.NewGetClientAppointment(appointmentRepo),
		ChangeRequest:     ucChangeRequest.NewSubmit(appointmentRepo, d.Audit, d.Clock),
		Cancel:            ucAppointment.NewCancelAppointment(appointmentRepo, d.OTPs, d.Audit, d.Clock),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, cfg, tokens, d.Audit)
	meHandler := handlers.NewMeHandler(d.DB)
	businessHandler := handlers.NewBusinessHandler(d.DB)
	serviceHandler := handlers.NewServiceHandler(d.DB)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Audit)
	clientHandler := handlers.NewClientHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		transitionUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		d.Clock,
	)

	changeRequestHandler := handlers.NewChangeRequestHandler(
		ucChangeRequest.NewList(appointmentRepo),
		ucChangeRequest.NewAccept(appointmentRepo, d.Audit, d.Clock),
		ucChangeRequest.NewReject(appointmentRepo, d.Audit),
	)

	dashboardHandler := handlers.NewDashboardHandler(
		ucDashboard.NewGetDashboard(appointmentRepo, d.Clock),
		earningsUC,
	)

	feedbackHandler := handlers.NewFeedbackHandler(d.DB, phones)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	adminHandler := handlers.NewAdminHandler(d.DB, d.Audit)
	publicHandler := handlers.NewPublicHandler(d.DB, publicUC, phones, d.Clock)

	// ======================================================
	// 🩺 OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var otpLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if d.Redis != nil {
		otpLimit = middleware.NewRedisRateLimiter(d.Redis, cfg.OTPRateLimit, 0).Middleware()
	}
	phoneVerified := middleware.PhoneTokenMiddleware(tokens)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		{
			publicAPI.GET("/data", publicHandler.Data)
			publicAPI.GET("/available-slots", publicHandler.AvailableSlots)

			publicAPI.POST("/otp/request", otpLimit, publicHandler.RequestOTP)
			publicAPI.POST("/otp/verify", otpLimit, publicHandler.VerifyOTP)

			publicAPI.POST("/client-details", phoneVerified, publicHandler.SubmitClientDetails)
			publicAPI.POST("/reserve", phoneVerified, publicHandler.Reserve)
			publicAPI.GET("/appointment", phoneVerified, publicHandler.ClientAppointment)
			publicAPI.POST("/change-requests", phoneVerified, publicHandler.SubmitChangeRequest)

			publicAPI.POST("/cancel", otpLimit, publicHandler.Cancel)
			publicAPI.POST("/feedback", feedbackHandler.Create)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA (DONO)
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(models.RoleOwner))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/business", businessHandler.GetMeBusiness)
			secured.PATCH("/business", businessHandler.UpdateMeBusiness)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			secured.GET("/working-hours", workingHoursHandler.Get)
			secured.PUT("/working-hours", workingHoursHandler.Update)

			secured.GET("/clients", clientHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.POST("/appointments/:id/:action", appointmentHandler.Action)

			secured.GET("/change-requests", changeRequestHandler.List)
			secured.POST("/change-requests/:id/accept", changeRequestHandler.Accept)
			secured.POST("/change-requests/:id/reject", changeRequestHandler.Reject)

			secured.GET("/dashboard", dashboardHandler.Dashboard)
			secured.GET("/earnings", dashboardHandler.Earnings)
			secured.GET("/feedback", feedbackHandler.List)
			secured.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// 🛡️ ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/businesses", adminHandler.ListBusinesses)
			admin.POST("/businesses/:id/approve", adminHandler.Approve)
			admin.POST("/businesses/:id/reject", adminHandler.Reject)
		}
	}
}
