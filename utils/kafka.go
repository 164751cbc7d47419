package utils

import (
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sharath018/event-scheduler-backend/config"
)

// InitializeKafka builds the writer used by the change feed.
// Returns nil when KAFKA_BROKERS is empty.
func InitializeKafka(cfg *config.Config) *kafka.Writer {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("ℹ️ KAFKA_BROKERS not set, Kafka change publishing disabled")
		return nil
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	log.Printf("✅ Kafka writer ready for topic %s", cfg.KafkaTopic)
	return w
}
