package test_seeder

import (
	"context"
	"fmt"

	"webservicepoc/src/domain/entities"
)

// InsertPosts writes a post bypassing the repository, keeping the given dates.
func (ts TestSeeder) InsertPosts(ctx context.Context, posts *entities.Posts) {
	query := `
		INSERT INTO posts (title, content, author, created_date, modified_date)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := ts.pool.QueryRow(ctx, query,
		posts.Title,
		posts.Content,
		posts.Author,
		posts.CreatedDate,
		posts.ModifiedDate,
	).Scan(&posts.ID)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertPosts failed: %v", err))
	}
}

func (ts TestSeeder) InsertUser(ctx context.Context, user *entities.User) {
	query := `
		INSERT INTO users (name, email, picture, role)
		VALUES ($1, $2, $3, $4) RETURNING id, created_date, modified_date`

	err := ts.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Picture,
		user.Role,
	).Scan(&user.ID, &user.CreatedDate, &user.ModifiedDate)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertUser failed: %v", err))
	}
}
