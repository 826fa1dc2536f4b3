package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendia-app/agendia/internal/audit"
	"github.com/agendia-app/agendia/internal/config"
	"github.com/agendia-app/agendia/internal/dedupe"
	"github.com/agendia-app/agendia/internal/domain/calendar"
	"github.com/agendia-app/agendia/internal/domain/intent"
	"github.com/agendia-app/agendia/internal/handlers"
	infraRepo "github.com/agendia-app/agendia/internal/infra/repository"
	"github.com/agendia-app/agendia/internal/middleware"
	"github.com/agendia-app/agendia/internal/storage"
	"github.com/agendia-app/agendia/internal/telegram"
	ucAppointment "github.com/agendia-app/agendia/internal/usecase/appointment"
	"github.com/agendia-app/agendia/internal/usecase/command"
)

// Deps agrupa os colaboradores externos já construídos no bootstrap.
type Deps struct {
	Interpreter  intent.Interpreter
	Calendar     calendar.Service
	Bot          telegram.BotAPI
	Dedupe       dedupe.Store          // opcional
	VoiceArchive *storage.VoiceArchive // opcional
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES
	// ======================================================
	processCommandUC := command.NewProcessCommand(
		deps.Interpreter,
		deps.Calendar,
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		deps.Calendar,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	telegramHandler := handlers.NewTelegramHandler(
		deps.Bot,
		processCommandUC,
		deps.Dedupe,
		deps.VoiceArchive,
		cfg.TelegramWebhookSecret,
	)

	authHandler := handlers.NewAuthHandler(db, cfg)

	appointmentHandler := handlers.NewAppointmentHandler(
		listAppointmentsUC,
		cancelAppointmentUC,
	)

	// ======================================================
	// WEBHOOK
	// ======================================================
	r.POST("/webhook/telegram", telegramHandler.Webhook)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
		}
	}
}
