package changefeed

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Publisher interface {
	Publish(ctx context.Context, ch Change) error
}

// ===========================
// 📡 Redis pub/sub

type redisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, ch Change) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, ChannelPrefix+ch.Resource, string(payload)).Err()
}

// ===========================
// 📨 Kafka topic

// messageWriter is the part of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(w *kafka.Writer) Publisher {
	return &kafkaPublisher{writer: w}
}

func (p *kafkaPublisher) Publish(ctx context.Context, ch Change) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ch.Resource + ":" + ch.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(ch.Action)},
		},
	})
}

// ===========================
// 🔀 Fan-out

type multiPublisher []Publisher

// Combine returns a publisher delivering to every non-nil publisher given
func Combine(pubs ...Publisher) Publisher {
	var out multiPublisher
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m multiPublisher) Publish(ctx context.Context, ch Change) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
