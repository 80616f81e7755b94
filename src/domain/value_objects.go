package domain

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")

	ErrValidation      = errors.New("invalid data")
	ErrBadRequest      = errors.New("bad request")
	ErrForbidden       = errors.New("access denied")
	ErrUnauthenticated = errors.New("authentication required")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// ############################################################
// #################### PROCESSO DE ESCRITA ###################
// ############################################################

// PostsSaveRequest carries the fields accepted when a post is created.
type PostsSaveRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// PostsUpdateRequest carries the only mutable fields of a post.
type PostsUpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ############################################################
// #################### PROCESSO DE LEITURA ###################
// ############################################################

// PostsListItem is the projection used by listings.
type PostsListItem struct {
	ID           int64
	Title        string
	Author       string
	ModifiedDate time.Time
}

// ############################################################
// ###################### EVENTOS DE POSTS ####################
// ############################################################

type PostEventType string

const (
	PostCreated PostEventType = "post.created"
	PostUpdated PostEventType = "post.updated"
	PostDeleted PostEventType = "post.deleted"
)

// PostEvent is published after every successful write on a post.
type PostEvent struct {
	EventID    string        `json:"event_id"`
	Type       PostEventType `json:"type"`
	PostID     int64         `json:"post_id"`
	Title      string        `json:"title,omitempty"`
	Author     string        `json:"author,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
