package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
)

const DefaultRecommendationEventsTopic = "recommendation-events"

// RecommendationEvent is published after every successfully generated
// recommendation so downstream analytics can track demand per city and the
// effect of scoring weights.
type RecommendationEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	City       string    `json:"city"`
	Date       string    `json:"date"`
	TrailCount int       `json:"trail_count"`
	Weighted   bool      `json:"weighted"`
	CacheHit   bool      `json:"cache_hit"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventBus publishes recommendation events to Kafka. Publishing is
// best-effort: a broker outage must never fail a recommendation request.
type EventBus struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewEventBus(cfg *config.Config, logger *logrus.Logger) (*EventBus, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	topic := cfg.Kafka.Topics.RecommendationEvents
	if topic == "" {
		topic = DefaultRecommendationEventsTopic
	}

	return &EventBus{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // Key by city so per-city ordering holds
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		logger: logger,
	}, nil
}

func (b *EventBus) PublishRecommendationEvent(ctx context.Context, event RecommendationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.City),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "request_id", Value: []byte(event.RequestID.String())},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := b.writer.WriteMessages(writeCtx, message); err != nil {
		b.logger.WithError(err).WithField("request_id", event.RequestID).
			Error("Failed to publish recommendation event")
		return fmt.Errorf("failed to write recommendation event: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"request_id":  event.RequestID,
		"city":        event.City,
		"trail_count": event.TrailCount,
	}).Debug("Recommendation event published")

	return nil
}

func (b *EventBus) Close() error {
	if b.writer != nil {
		return b.writer.Close()
	}
	return nil
}
