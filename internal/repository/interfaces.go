package repository

import (
	"context"

	"micronet/internal/cache"
	"micronet/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetProfile returns the user decorated with follow counts and the
	// viewer's follow status. viewerID may be nil for anonymous viewers.
	GetProfile(ctx context.Context, username string, viewerID *int64) (*model.Profile, error)
	// ExistsOtherWithUsername reports whether any user other than
	// excludeID holds the username. Same for email below.
	ExistsOtherWithUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsOtherWithEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, username, email, about string, photoURL, photoKey *string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

type FollowRepository interface {
	// Create inserts the edge and reports whether it was new.
	Create(ctx context.Context, followerID, followeeID int64) (bool, error)
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, text string) (*model.Post, error)
	// Edit looks the post up by (id, owner) in one statement; a post
	// owned by someone else is indistinguishable from a missing one.
	Edit(ctx context.Context, postID, userID int64, text string) (*model.Post, error)

	// FetchAll returns every post annotated for the viewer (nil for
	// anonymous), newest first, without comments attached.
	FetchAll(ctx context.Context, viewerID *int64) ([]model.Post, error)
	// FetchFollowing restricts FetchAll to authors the viewer follows.
	FetchFollowing(ctx context.Context, viewerID int64) ([]model.Post, error)
	FetchByUser(ctx context.Context, authorID int64, viewerID *int64) ([]model.Post, error)
	FetchByID(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error)
	// FetchByIDs hydrates cached timeline ids, preserving input order.
	FetchByIDs(ctx context.Context, postIDs []int64, viewerID *int64) ([]model.Post, error)

	// Liker-set operations. Like is an idempotent set insert.
	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
	IsLikedBy(ctx context.Context, postID, userID int64) (bool, error)
	LikeCount(ctx context.Context, postID int64) (int, error)

	Exists(ctx context.Context, postID int64) (bool, error)
	// RecentPostScores feeds the timeline cache warmer.
	RecentPostScores(ctx context.Context, limit int) ([]cache.PostScore, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, text string, parentID *int64) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// ForPosts fetches every comment for the given posts in one query
	// and assembles the per-post top-level lists with nested replies.
	ForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error)
}
