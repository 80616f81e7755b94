package stubs

import (
	"time"

	"webservicepoc/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type PostsStub struct {
	posts entities.Posts
}

// NewPostsStub returns a valid, not yet persisted post.
func NewPostsStub() PostsStub {
	posts := entities.NewPostsBuilder().
		Title(gofakeit.Sentence(6)).
		Content(gofakeit.Paragraph(2, 3, 12, " ")).
		Author(gofakeit.Email()).
		Build()

	return PostsStub{posts: posts}
}

func (ps PostsStub) WithID(id int64) PostsStub {
	ps.posts.ID = id
	return ps
}

func (ps PostsStub) WithTitle(title string) PostsStub {
	ps.posts.Title = title
	return ps
}

func (ps PostsStub) WithContent(content string) PostsStub {
	ps.posts.Content = content
	return ps
}

func (ps PostsStub) WithAuthor(author string) PostsStub {
	ps.posts.Author = author
	return ps
}

func (ps PostsStub) WithDates(created time.Time, modified time.Time) PostsStub {
	ps.posts.CreatedDate = created
	ps.posts.ModifiedDate = modified
	return ps
}

func (ps PostsStub) Get() entities.Posts {
	return ps.posts
}
