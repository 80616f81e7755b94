package repositories

import (
	"context"
	"fmt"
	"strings"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
	"webservicepoc/src/infra/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostsStore is the persistence contract for posts. Save inserts when the
// id is zero and otherwise updates title and content of an existing row.
type PostsStore interface {
	Save(ctx context.Context, posts entities.Posts) (entities.Posts, error)
	FindByID(ctx context.Context, id int64) (entities.Posts, error)
	FindAll(ctx context.Context) ([]entities.Posts, error)
	FindAllDesc(ctx context.Context) ([]entities.Posts, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

var postsColumns = strings.Join(postgres.PostsTable.ColumnNames(), ", ")

type PostsRepository struct {
	pool *pgxpool.Pool
}

func NewPostsRepository(pool *pgxpool.Pool) *PostsRepository {
	return &PostsRepository{pool: pool}
}

func (r *PostsRepository) Save(ctx context.Context, posts entities.Posts) (entities.Posts, error) {
	if err := posts.Validate(); err != nil {
		return entities.Posts{}, err
	}

	if posts.ID == 0 {
		return r.insert(ctx, posts)
	}

	return r.update(ctx, posts)
}

func (r *PostsRepository) insert(ctx context.Context, posts entities.Posts) (entities.Posts, error) {
	query := `
		INSERT INTO posts (title, content, author)
		VALUES ($1, $2, $3)
		RETURNING id, created_date, modified_date`

	err := r.pool.QueryRow(ctx, query, posts.Title, posts.Content, postgres.NullString(posts.Author)).
		Scan(&posts.ID, &posts.CreatedDate, &posts.ModifiedDate)
	if err != nil {
		return entities.Posts{}, fmt.Errorf("PostsRepository.Save - failed to insert: %w", err)
	}

	return posts, nil
}

// update never touches author, id or created_date; the stored author is
// read back so the caller sees the persisted row.
func (r *PostsRepository) update(ctx context.Context, posts entities.Posts) (entities.Posts, error) {
	query := `
		UPDATE posts
		SET title = $2, content = $3, modified_date = NOW()
		WHERE id = $1
		RETURNING author, created_date, modified_date`

	var author *string
	err := r.pool.QueryRow(ctx, query, posts.ID, posts.Title, posts.Content).
		Scan(&author, &posts.CreatedDate, &posts.ModifiedDate)
	if postgres.IsNoRows(err) {
		return entities.Posts{}, fmt.Errorf("PostsRepository.Save - id=%d: %w", posts.ID, domain.ErrPostNotFound)
	}
	if err != nil {
		return entities.Posts{}, fmt.Errorf("PostsRepository.Save - failed to update %d: %w", posts.ID, err)
	}

	posts.Author = postgres.StringOrEmpty(author)
	return posts, nil
}

func (r *PostsRepository) FindByID(ctx context.Context, id int64) (entities.Posts, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postsColumns)

	posts, err := scanPosts(r.pool.QueryRow(ctx, query, id))
	if postgres.IsNoRows(err) {
		return entities.Posts{}, fmt.Errorf("PostsRepository.FindByID - id=%d: %w", id, domain.ErrPostNotFound)
	}
	if err != nil {
		return entities.Posts{}, fmt.Errorf("PostsRepository.FindByID - failed to query %d: %w", id, err)
	}

	return posts, nil
}

func (r *PostsRepository) FindAll(ctx context.Context) ([]entities.Posts, error) {
	return r.list(ctx, "ASC")
}

func (r *PostsRepository) FindAllDesc(ctx context.Context) ([]entities.Posts, error) {
	return r.list(ctx, "DESC")
}

func (r *PostsRepository) list(ctx context.Context, direction string) ([]entities.Posts, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts ORDER BY id %s`, postsColumns, direction)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("PostsRepository.list - failed to query: %w", err)
	}
	defer rows.Close()

	postsList := make([]entities.Posts, 0)
	for rows.Next() {
		posts, err := scanPosts(rows)
		if err != nil {
			return nil, fmt.Errorf("PostsRepository.list - failed to scan: %w", err)
		}
		postsList = append(postsList, posts)
	}

	return postsList, rows.Err()
}

func (r *PostsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PostsRepository.Delete - failed to delete %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PostsRepository.Delete - id=%d: %w", id, domain.ErrPostNotFound)
	}

	return nil
}

func (r *PostsRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("PostsRepository.DeleteAll - failed: %w", err)
	}
	return nil
}

func scanPosts(row pgx.Row) (entities.Posts, error) {
	var posts entities.Posts
	var author *string

	err := row.Scan(
		&posts.ID,
		&posts.Title,
		&posts.Content,
		&author,
		&posts.CreatedDate,
		&posts.ModifiedDate,
	)
	if err != nil {
		return entities.Posts{}, err
	}

	posts.Author = postgres.StringOrEmpty(author)
	return posts, nil
}

var _ PostsStore = (*PostsRepository)(nil)
