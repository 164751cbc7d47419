package auditlog

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartRetention schedules a purge of entries older than retentionDays on spec (standard
// 5-field cron syntax). The returned scheduler is already running; Stop it on shutdown.
// A non-positive retention disables the job and returns nil.
func StartRetention(service Service, spec string, retentionDays int) (*cron.Cron, error) {
	if retentionDays <= 0 {
		log.Println("🗃️ Audit log retention disabled")
		return nil, nil
	}

	age := time.Duration(retentionDays) * 24 * time.Hour
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := service.PurgeOlderThan(ctx, age)
		if err != nil {
			log.Printf("❌ Audit log purge failed: %v", err)
			return
		}
		log.Printf("🧹 Purged %d audit log entries older than %d days", n, retentionDays)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("⏰ Audit log retention scheduled (%s, keep %d days)", spec, retentionDays)
	return c, nil
}
