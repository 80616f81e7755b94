package test_seeder

import (
	"context"

	"webservicepoc/src/domain/entities"
)

func (ts TestSeeder) SelectPostsByIDs(ctx context.Context, ids []int64) ([]entities.Posts, error) {
	query := `SELECT id, title, content, COALESCE(author, ''), created_date, modified_date
			  FROM posts WHERE id = ANY($1) ORDER BY id`

	rows, err := ts.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postsList []entities.Posts
	for rows.Next() {
		var posts entities.Posts
		err := rows.Scan(
			&posts.ID,
			&posts.Title,
			&posts.Content,
			&posts.Author,
			&posts.CreatedDate,
			&posts.ModifiedDate,
		)
		if err != nil {
			return nil, err
		}
		postsList = append(postsList, posts)
	}

	return postsList, rows.Err()
}

func (ts TestSeeder) CountPosts(ctx context.Context) (int, error) {
	var count int
	err := ts.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}
