package posts

import (
	"context"
	"log/slog"
	"time"

	"webservicepoc/src/domain"
	"webservicepoc/src/repositories"

	"github.com/google/uuid"
)

// EventPublisher receives a PostEvent after every committed write.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.PostEvent) error
}

type PostsService struct {
	logger    *slog.Logger
	store     repositories.PostsStore
	publisher EventPublisher
	now       func() time.Time
}

func NewPostsService(
	logger *slog.Logger,
	store repositories.PostsStore,
	publisher EventPublisher,
) *PostsService {
	return &PostsService{
		logger:    logger,
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// publish never fails the caller: the write is already committed and the
// event is a notification for caches and other readers.
func (s *PostsService) publish(ctx context.Context, eventType domain.PostEventType, postID int64, title string, author string) {
	if s.publisher == nil {
		return
	}

	event := domain.PostEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		PostID:     postID,
		Title:      title,
		Author:     author,
		OccurredAt: s.now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish post event",
			"error", err,
			"event_type", eventType,
			"post_id", postID)
	}
}
