package model

import (
	"errors"
)

// Follow is one directed edge in the follow graph. "Following" and
// "followers" are the two views of this edge set.
type Follow struct {
	FollowerID int64     `db:"follower_id" json:"followerID"`
	FolloweeID int64     `db:"followee_id" json:"followeeID"`
	CreatedAt  Timestamp `db:"created_at" json:"createdAt"`
}

// FollowResult is the response shape for the follow toggle.
type FollowResult struct {
	Message string `json:"message"`
}

var (
	// ErrCannotFollowSelf guards the follow-graph invariant: the edge
	// (u, u) must never exist. Checked before any mutation.
	ErrCannotFollowSelf = errors.New("you cannot follow yourself")
)
