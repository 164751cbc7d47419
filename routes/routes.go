package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sharath018/event-scheduler-backend/config"
	"github.com/sharath018/event-scheduler-backend/internal/auditlog"
	"github.com/sharath018/event-scheduler-backend/internal/changefeed"
	"github.com/sharath018/event-scheduler-backend/internal/event"
	"github.com/sharath018/event-scheduler-backend/internal/eventtype"
	"github.com/sharath018/event-scheduler-backend/internal/reports"
	"github.com/sharath018/event-scheduler-backend/internal/user"
	"github.com/sharath018/event-scheduler-backend/middleware"

	_ "github.com/sharath018/event-scheduler-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the shared resources handed to every module
type Deps struct {
	DB    *gorm.DB
	Feed  *changefeed.Feed // nil disables list caching and change publishing
	Redis *redis.Client    // nil disables the change stream
}

// Services exposes the wired services so main can seed data and schedule jobs
type Services struct {
	Audit      auditlog.Service
	EventTypes *eventtype.Service
	Users      *user.Service
	Events     *event.Service
}

// Migrate creates or updates every table the API uses
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auditlog.AuditLog{},
		&user.User{},
		&eventtype.EventType{},
		&event.Event{},
	)
}

func Setup(r *gin.Engine, cfg *config.Config, deps Deps) *Services {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(middleware.ClientIP())                          // capture IP for the audit trail
	api.Use(middleware.RateLimiter(cfg.RateLimitPerMinute)) // per-IP limit

	// ========== Audit Logs ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(deps.DB))
	auditHandler := auditlog.NewHandler(auditSvc)

	auditRoutes := api.Group("/audit-logs")
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Event Types ==========
	typeSvc := eventtype.NewService(eventtype.NewRepository(deps.DB), auditSvc, deps.Feed)
	typeHandler := eventtype.NewHandler(typeSvc)

	typeRoutes := api.Group("/event-types")
	{
		typeRoutes.GET("", typeHandler.List)
		typeRoutes.POST("", typeHandler.Create)
		typeRoutes.PATCH("", typeHandler.Update)
		typeRoutes.DELETE("", typeHandler.Delete)
	}

	// ========== Users ==========
	userSvc := user.NewService(user.NewRepository(deps.DB), auditSvc, deps.Feed)
	userHandler := user.NewHandler(userSvc)

	userRoutes := api.Group("/users")
	{
		userRoutes.GET("", userHandler.List)
		userRoutes.POST("", userHandler.Create)
		userRoutes.PATCH("", userHandler.Update)
		userRoutes.DELETE("", userHandler.Delete)
		userRoutes.GET("/:id", userHandler.Get)
		userRoutes.PATCH("/:id", userHandler.Update)
	}

	// ========== Events ==========
	eventSvc := event.NewService(event.NewRepository(deps.DB), userSvc, typeSvc, auditSvc, deps.Feed)
	eventHandler := event.NewHandler(eventSvc)

	reportSvc := reports.NewReportService(eventSvc, reports.NewReportExporter(), auditSvc)
	reportHandler := reports.NewHandler(reportSvc)

	eventRoutes := api.Group("/events")
	{
		eventRoutes.GET("", eventHandler.ListEvents)
		eventRoutes.POST("", eventHandler.CreateEvent)
		eventRoutes.PATCH("", eventHandler.ReassignEvent)
		eventRoutes.DELETE("", eventHandler.DeleteEvent)
		eventRoutes.GET("/export", reportHandler.ExportEvents)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)
	}

	// ========== Change Stream ==========
	api.GET("/changes/stream", changefeed.NewHandler(deps.Redis).Stream)

	return &Services{
		Audit:      auditSvc,
		EventTypes: typeSvc,
		Users:      userSvc,
		Events:     eventSvc,
	}
}
