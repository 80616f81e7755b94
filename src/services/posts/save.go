package posts

import (
	"context"
	"fmt"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
)

// Save creates a post and returns its id.
func (s *PostsService) Save(ctx context.Context, request domain.PostsSaveRequest) (int64, error) {
	posts := entities.NewPostsBuilder().
		Title(request.Title).
		Content(request.Content).
		Author(request.Author).
		Build()

	saved, err := s.store.Save(ctx, posts)
	if err != nil {
		return 0, fmt.Errorf("PostsService.Save - failed to save: %w", err)
	}

	s.logger.Info("Post created", "post_id", saved.ID, "author", saved.Author)
	s.publish(ctx, domain.PostCreated, saved.ID, saved.Title, saved.Author)

	return saved.ID, nil
}
