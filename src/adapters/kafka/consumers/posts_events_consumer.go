package consumers

import (
	"context"
	"log/slog"
	"strings"

	"webservicepoc/src/infra/kafka"
)

// BatchConsumer is the consuming side of the kafka client.
type BatchConsumer interface {
	Consumer(ctx context.Context, handler kafka.Handler, topic string) error
}

// BatchHandler handles a decoded batch of post events.
type BatchHandler interface {
	Handle(ctx context.Context, messages []kafka.Message) error
}

type PostsEventsConsumer struct {
	logger  *slog.Logger
	handler BatchHandler
}

func NewPostsEventsConsumer(logger *slog.Logger, handler BatchHandler) *PostsEventsConsumer {
	return &PostsEventsConsumer{
		logger:  logger,
		handler: handler,
	}
}

// Start blocks until ctx is cancelled.
func (c *PostsEventsConsumer) Start(ctx context.Context, consumer BatchConsumer, topic string) error {
	c.logger.Info("Starting posts events consumer", "topic", topic)

	return consumer.Consumer(ctx, c.handleMessages, topic)
}

// handleMessages drops messages whose event_type header is not a post
// event before decoding; messages without the header are kept.
func (c *PostsEventsConsumer) handleMessages(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	c.logger.Info("Processing messages batch", "count", len(messages))

	postMessages := make([]kafka.Message, 0, len(messages))
	for _, msg := range messages {
		eventType, ok := msg.Headers["event_type"]
		if ok && !strings.HasPrefix(eventType, "post.") {
			c.logger.Debug("Skipping foreign event", "key", msg.Key, "event_type", eventType)
			continue
		}
		postMessages = append(postMessages, msg)
	}

	if len(postMessages) == 0 {
		return nil
	}

	return c.handler.Handle(ctx, postMessages)
}
