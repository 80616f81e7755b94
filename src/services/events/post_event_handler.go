package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"webservicepoc/src/domain"
	"webservicepoc/src/infra/kafka"
)

// CacheInvalidator drops cached posts by id.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...int64) error
}

// PostEventHandler consumes post events and evicts the affected posts from
// the shared cache, so every instance reads fresh rows after a write made
// elsewhere.
type PostEventHandler struct {
	logger      *slog.Logger
	invalidator CacheInvalidator
}

func NewPostEventHandler(logger *slog.Logger, invalidator CacheInvalidator) *PostEventHandler {
	return &PostEventHandler{logger: logger, invalidator: invalidator}
}

// Handle processes one batch. Undecodable messages are logged and skipped;
// an invalidation error fails the batch, which the consumer then reads
// again from its first offset.
func (h *PostEventHandler) Handle(ctx context.Context, messages []kafka.Message) error {
	ids := make([]int64, 0, len(messages))
	seen := make(map[int64]bool, len(messages))

	for _, message := range messages {
		var event domain.PostEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			h.logger.Error("Discarding undecodable post event", "key", message.Key, "error", err)
			continue
		}

		h.logger.Info("Post event received",
			"event_id", event.EventID,
			"event_type", event.Type,
			"post_id", event.PostID)

		if event.Type == domain.PostCreated || seen[event.PostID] {
			continue
		}
		seen[event.PostID] = true
		ids = append(ids, event.PostID)
	}

	if len(ids) == 0 {
		return nil
	}

	return h.invalidator.Invalidate(ctx, ids...)
}
