package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"webservicepoc/src/domain"
	"webservicepoc/src/infra/kafka"
)

// Producer is the part of the kafka client the publisher needs.
type Producer interface {
	Producer(ctx context.Context, messages []kafka.Message, topic string) error
}

type PostEventPublisher struct {
	logger   *slog.Logger
	producer Producer
	topic    string
}

func NewPostEventPublisher(
	logger *slog.Logger,
	producer Producer,
	topic string,
) *PostEventPublisher {
	return &PostEventPublisher{
		logger:   logger,
		producer: producer,
		topic:    topic,
	}
}

// PublishPostEvents sends a batch of events, keyed by post id so every event
// of a post lands on the same partition.
func (p *PostEventPublisher) PublishPostEvents(ctx context.Context, events []domain.PostEvent) error {
	if len(events) == 0 {
		return nil
	}

	kafkaMessages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		eventBytes, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal post event",
				"error", err,
				"event_id", event.EventID,
				"post_id", event.PostID)
			continue
		}

		kafkaMessages = append(kafkaMessages, kafka.Message{
			Key:     strconv.FormatInt(event.PostID, 10),
			Value:   eventBytes,
			Headers: p.createEventHeaders(event),
		})
	}

	if err := p.producer.Producer(ctx, kafkaMessages, p.topic); err != nil {
		p.logger.Error("Failed to publish post events to Kafka",
			"error", err,
			"topic", p.topic,
			"events_count", len(kafkaMessages))
		return fmt.Errorf("failed to publish post events to topic %s: %w", p.topic, err)
	}

	p.logger.Debug("Published post events", "topic", p.topic, "events_count", len(kafkaMessages))

	return nil
}

func (p *PostEventPublisher) Publish(ctx context.Context, event domain.PostEvent) error {
	return p.PublishPostEvents(ctx, []domain.PostEvent{event})
}

// createEventHeaders lets consumers filter without decoding the payload.
func (p *PostEventPublisher) createEventHeaders(event domain.PostEvent) map[string]string {
	return map[string]string{
		"event_type":     string(event.Type),
		"event_id":       event.EventID,
		"source_service": "posts-webservice",
		"schema_version": "v1",
	}
}

// NoopPublisher only logs; used when KAFKA_BROKERS is not configured.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, event domain.PostEvent) error {
	p.logger.Debug("Post event (not published)", "event_type", event.Type, "post_id", event.PostID)
	return nil
}
