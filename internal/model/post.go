package model

import (
	"errors"
)

// Post represents a short text update with its viewer-scoped annotations.
type Post struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"-"`
	Username        string    `db:"username" json:"username"`
	Text            string    `db:"text" json:"text"`
	Edited          bool      `db:"edited" json:"edited"`
	PublicationDate Timestamp `db:"publication_date" json:"publicationDate"`
	LastModified    Timestamp `db:"last_modified" json:"lastModified"`

	// Annotations computed per viewing user, never persisted.
	IsOwner     bool `db:"is_owner" json:"isOwner"`
	IsFollowing bool `db:"is_following" json:"isFollowing"`
	Likes       int  `db:"likes" json:"likes"`
	LikedByUser bool `db:"liked_by_user" json:"likedByUser"`

	// Top-level comments, attached in one batch fetch.
	Comments []Comment `json:"comments"`
}

// PostIn is the request body for creating or editing a post.
type PostIn struct {
	PostID int64  `json:"postID"`
	Text   string `json:"text" validate:"required,min=3,max=200,nohtml"`
}

// EditedPost is the trimmed response shape for edit_post.
type EditedPost struct {
	ID           int64     `json:"id"`
	Text         string    `json:"text"`
	Edited       bool      `json:"edited"`
	LastModified Timestamp `json:"lastModified"`
}

// LikeResult is the response shape for like_post.
type LikeResult struct {
	ID          int64 `json:"id"`
	Likes       int   `json:"likes"`
	LikedByUser bool  `json:"likedByUser"`
}

// PaginatedPosts is the page envelope returned by the listing endpoints.
type PaginatedPosts struct {
	NumPages     int    `json:"numPages"`
	PreviousPage *int   `json:"previousPage"`
	NextPage     *int   `json:"nextPage"`
	Posts        []Post `json:"posts"`
}

// Text constraints shared by posts and comments (trimmed length).
const (
	MinTextLength = 3
	MaxTextLength = 200
)

// PageSize is the fixed page size for all post listings.
const PageSize = 10

var ErrPostNotFound = errors.New("post not found")
