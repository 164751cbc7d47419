package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sharath018/event-scheduler-backend/config"
	"github.com/sharath018/event-scheduler-backend/database"
	"github.com/sharath018/event-scheduler-backend/internal/auditlog"
	"github.com/sharath018/event-scheduler-backend/internal/changefeed"
	"github.com/sharath018/event-scheduler-backend/middleware"
	"github.com/sharath018/event-scheduler-backend/routes"
	"github.com/sharath018/event-scheduler-backend/utils"
)

// @title Event Scheduler API
// @version 1.0
// @description Events, event types and users for the scheduling admin.
// @BasePath /
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis (optional)
	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka (optional)
	kafkaWriter := utils.InitializeKafka(cfg)

	// Change feed: list cache + publishers
	var (
		pubs  []changefeed.Publisher
		cache changefeed.ListCache
	)
	if utils.RedisClient != nil {
		pubs = append(pubs, changefeed.NewRedisPublisher(utils.RedisClient))
		cache = changefeed.NewRedisListCache(utils.RedisClient, time.Duration(cfg.ListCacheTTLSecs)*time.Second)
	}
	if kafkaWriter != nil {
		pubs = append(pubs, changefeed.NewKafkaPublisher(kafkaWriter))
	}
	feed := changefeed.NewFeed(changefeed.Combine(pubs...), cache)

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := routes.Migrate(db); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Content-Length", "X-Requested-With", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	services := routes.Setup(router, cfg, routes.Deps{DB: db, Feed: feed, Redis: utils.RedisClient})

	// Seed default event types
	if err := services.EventTypes.SeedDefaults(context.Background()); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed event types: %v", err))
	}

	// Audit log retention
	retention, err := auditlog.StartRetention(services.Audit, cfg.AuditPurgeCron, cfg.AuditRetentionDays)
	if err != nil {
		log.Fatalf("❌ Invalid AUDIT_PURGE_CRON %q: %v", cfg.AuditPurgeCron, err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		log.Printf("✅ CORS configured for: %v", cfg.CORSOrigins)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	if retention != nil {
		<-retention.Stop().Done()
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close: %v", err)
		}
	}
	if utils.RedisClient != nil {
		_ = utils.RedisClient.Close()
	}
	log.Println("👋 Bye")
}
