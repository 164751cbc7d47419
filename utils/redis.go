package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharath018/event-scheduler-backend/config"
)

var (
	// RedisClient stays nil when REDIS_ADDR is not configured
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// InitRedis connects to Redis when configured. Missing configuration is not an error:
// list caching and the change stream simply run disabled.
func InitRedis(cfg *config.Config) error {
	if cfg.RedisAddr == "" {
		log.Println("ℹ️ REDIS_ADDR not set, list cache and change stream disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(Ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	RedisClient = client
	log.Printf("✅ Redis connected at %s", cfg.RedisAddr)
	return nil
}
