package posts

import (
	"context"
	"fmt"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
)

func (s *PostsService) FindByID(ctx context.Context, id int64) (entities.Posts, error) {
	posts, err := s.store.FindByID(ctx, id)
	if err != nil {
		return entities.Posts{}, fmt.Errorf("PostsService.FindByID - 해당 게시글이 없습니다. id=%d: %w", id, err)
	}

	return posts, nil
}

// FindAllDesc lists every post, newest first.
func (s *PostsService) FindAllDesc(ctx context.Context) ([]domain.PostsListItem, error) {
	postsList, err := s.store.FindAllDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("PostsService.FindAllDesc - failed to list: %w", err)
	}

	items := make([]domain.PostsListItem, 0, len(postsList))
	for _, posts := range postsList {
		items = append(items, domain.PostsListItem{
			ID:           posts.ID,
			Title:        posts.Title,
			Author:       posts.Author,
			ModifiedDate: posts.ModifiedDate,
		})
	}

	return items, nil
}
