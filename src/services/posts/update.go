package posts

import (
	"context"
	"fmt"

	"webservicepoc/src/domain"
)

// Update replaces title and content of an existing post.
func (s *PostsService) Update(ctx context.Context, id int64, request domain.PostsUpdateRequest) (int64, error) {
	posts, err := s.store.FindByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("PostsService.Update - 해당 게시글이 없습니다. id=%d: %w", id, err)
	}

	posts.Update(request.Title, request.Content)

	saved, err := s.store.Save(ctx, posts)
	if err != nil {
		return 0, fmt.Errorf("PostsService.Update - failed to save %d: %w", id, err)
	}

	s.publish(ctx, domain.PostUpdated, saved.ID, saved.Title, saved.Author)

	return saved.ID, nil
}
