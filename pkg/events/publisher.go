package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/foodorders/pkg/config"
	"github.com/example/foodorders/pkg/models"
	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderCreated announces a freshly committed order to downstream consumers
// (kitchen display, notifications). Items carry the staged cart lines so
// consumers do not have to read the cart store themselves.
type OrderCreated struct {
	ID         int64             `json:"id"`
	ExternalID string            `json:"external_id"`
	Status     string            `json:"status"`
	Items      []models.CartItem `json:"items"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes order events to a fixed topic. Messages are keyed by the
// cart reference so all events for one order land on the same partition.
type Publisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewPublisher(cfg *config.KafkaConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger,
	}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, event *OrderCreated) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.ExternalID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "correlation_id", Value: []byte(uuid.NewString())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	p.logger.Debug("Order event published",
		zap.Int64("order_id", event.ID),
		zap.String("external_id", event.ExternalID))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
