package entities

// TitleMaxLength mirrors the varchar(500) column.
const TitleMaxLength = 500

// Posts é o registro persistido de uma publicação do quadro.
// ID and BaseTime belong to the store; Author is fixed at construction.
type Posts struct {
	ID      int64  `json:"id"`
	Title   string `json:"title" validate:"required,notblank,max=500"`
	Content string `json:"content" validate:"required,notblank"`
	Author  string `json:"author,omitempty"`
	BaseTime
}

// Update is the only sanctioned mutation: both fields are replaced together.
func (p *Posts) Update(title string, content string) {
	p.Title = title
	p.Content = content
}

func (p Posts) Validate() error {
	return validateStruct(p)
}

// PostsBuilder builds a new, not yet persisted, post.
type PostsBuilder struct {
	posts Posts
}

func NewPostsBuilder() PostsBuilder {
	return PostsBuilder{}
}

func (b PostsBuilder) Title(title string) PostsBuilder {
	b.posts.Title = title
	return b
}

func (b PostsBuilder) Content(content string) PostsBuilder {
	b.posts.Content = content
	return b
}

func (b PostsBuilder) Author(author string) PostsBuilder {
	b.posts.Author = author
	return b
}

func (b PostsBuilder) Build() Posts {
	return b.posts
}
