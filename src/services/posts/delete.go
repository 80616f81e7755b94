package posts

import (
	"context"
	"fmt"

	"webservicepoc/src/domain"
)

func (s *PostsService) Delete(ctx context.Context, id int64) error {
	posts, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("PostsService.Delete - 해당 게시글이 없습니다. id=%d: %w", id, err)
	}

	if err := s.store.Delete(ctx, posts.ID); err != nil {
		return fmt.Errorf("PostsService.Delete - failed to delete %d: %w", id, err)
	}

	s.publish(ctx, domain.PostDeleted, posts.ID, posts.Title, posts.Author)

	return nil
}
