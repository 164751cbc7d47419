package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// ✅ Database Config
	DBDriver   string // "postgres" (default) or "sqlite"
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string // sqlite file, only when DBDriver == "sqlite"

	// ✅ Redis Config (list cache + change feed)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ListCacheTTLSecs int

	// ✅ Kafka Config (change feed)
	KafkaBrokers []string
	KafkaTopic   string

	// ✅ HTTP Config
	CORSOrigins        []string
	RateLimitPerMinute int64

	// ✅ Audit retention
	AuditRetentionDays int
	AuditPurgeCron     string

	// ✅ Console client
	APIBaseURL string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "events"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "events.db"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		ListCacheTTLSecs: getEnvInt("LIST_CACHE_TTL_SECONDS", 60),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "event-scheduler.changes"),

		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		RateLimitPerMinute: int64(getEnvInt("RATE_LIMIT_PER_MINUTE", 100)),

		AuditRetentionDays: getEnvInt("AUDIT_RETENTION_DAYS", 90),
		AuditPurgeCron:     getEnv("AUDIT_PURGE_CRON", "0 3 * * *"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

// splitList turns "a, b,,c" into [a b c]
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
