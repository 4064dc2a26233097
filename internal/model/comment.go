package model

import (
	"errors"
)

// Comment represents a comment on a post. A comment with a parent is a
// reply; the reply flag is derived from parent presence, never set by
// callers directly.
type Comment struct {
	ID              int64     `db:"id" json:"id"`
	PostID          int64     `db:"post_id" json:"-"`
	UserID          int64     `db:"user_id" json:"-"`
	Username        string    `db:"username" json:"username"`
	Text            string    `db:"text" json:"text"`
	Reply           bool      `db:"reply" json:"-"`
	ParentCommentID *int64    `db:"parent_comment_id" json:"-"`
	PublicationDate Timestamp `db:"publication_date" json:"publicationDate"`

	// Replies nested under a top-level comment, newest first.
	Replies []Comment `json:"replies"`
}

// CommentIn is the request body for creating a comment. CommentID, when
// present, names the parent comment the new comment replies to.
type CommentIn struct {
	PostID    int64  `json:"postID" validate:"required"`
	CommentID *int64 `json:"commentID"`
	Text      string `json:"text" validate:"required,min=3,max=200,nohtml"`
}

var (
	ErrCommentNotFound = errors.New("comment not found")

	// ErrParentCommentMismatch is returned when a reply targets a parent
	// comment that belongs to a different post.
	ErrParentCommentMismatch = errors.New("parent comment must be from the same post")
)
