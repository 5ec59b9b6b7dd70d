package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/walkin-queue/internal/audit"
	"github.com/BruksfildServices01/walkin-queue/internal/bus"
	"github.com/BruksfildServices01/walkin-queue/internal/config"
	"github.com/BruksfildServices01/walkin-queue/internal/handlers"
	infraRepo "github.com/BruksfildServices01/walkin-queue/internal/infra/repository"
	"github.com/BruksfildServices01/walkin-queue/internal/live"
	"github.com/BruksfildServices01/walkin-queue/internal/middleware"
	"github.com/BruksfildServices01/walkin-queue/internal/suggest"
	ucQueue "github.com/BruksfildServices01/walkin-queue/internal/usecase/queue"
)

type Deps struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Changes *bus.RedisBus
	Hub     *live.Hub
	Feed    *live.Feed
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	queueRepo := infraRepo.NewQueueGormRepository(d.DB)

	auditLogger := audit.New(d.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	suggestClient := suggest.New(
		d.Cfg.SuggestURL,
		time.Duration(d.Cfg.SuggestTimeoutSec)*time.Second,
	)

	// ======================================================
	// USE CASES — QUEUE
	// ======================================================
	joinUC := ucQueue.NewJoinQueue(
		queueRepo,
		auditDispatcher,
		d.Changes,
	)

	transitionUC := ucQueue.NewTransitionEntry(
		queueRepo,
		auditDispatcher,
		d.Changes,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Cfg)
	meHandler := handlers.NewMeHandler(d.DB)
	serviceHandler := handlers.NewServiceHandler(d.DB, suggestClient)
	queueHandler := handlers.NewQueueHandler(d.DB, queueRepo, joinUC, transitionUC)
	liveHandler := handlers.NewLiveHandler(d.Hub, d.Feed)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/public/services", serviceHandler.ListPublic)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CUSTOMER QUEUE
			// ------------------------------
			secured.POST("/me/queue", queueHandler.Join)
			secured.GET("/me/queue", queueHandler.MyStatus)
			secured.GET("/me/queue/live", liveHandler.CustomerStream)

			// ------------------------------
			// STAFF
			// ------------------------------
			staff := secured.Group("/staff")
			staff.Use(middleware.StaffOnly())
			{
				staff.GET("/queue", queueHandler.StaffTable)
				staff.GET("/queue/live", liveHandler.BoardStream)
				staff.PATCH("/queue/:id/start", queueHandler.Start)
				staff.PATCH("/queue/:id/complete", queueHandler.Complete)
				staff.PATCH("/queue/:id/remove", queueHandler.Remove)

				staff.GET("/services", serviceHandler.List)
				staff.POST("/services", serviceHandler.Create)
				staff.PATCH("/services/:id", serviceHandler.Update)
				staff.POST("/services/describe", serviceHandler.Describe)

				staff.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
