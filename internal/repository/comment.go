package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"micronet/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a comment. The reply flag is derived from parent
// presence; callers never set it directly.
func (r *commentRepository) Create(ctx context.Context, postID, userID int64, text string, parentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, text, reply, parent_comment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, post_id, user_id, text, reply, parent_comment_id, publication_date
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, postID, userID, text, parentID != nil, parentID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, c.text, c.reply, c.parent_comment_id, c.publication_date
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// ForPosts fetches every comment for the given posts in ONE query and
// assembles the per-post comment trees: top-level comments newest
// first, each carrying its replies (also newest first). This is the
// single extra fetch that keeps post listings free of per-post comment
// queries.
func (r *commentRepository) ForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	result := make(map[int64][]model.Comment, len(postIDs))
	for _, id := range postIDs {
		result[id] = []model.Comment{}
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, c.text, c.reply, c.parent_comment_id, c.publication_date
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.publication_date DESC, c.id DESC
	`
	var flat []model.Comment
	if err := r.db.SelectContext(ctx, &flat, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	// Rows arrive newest first, so both the top-level slices and the
	// children lists preserve that ordering.
	children := make(map[int64][]*model.Comment)
	var topLevel []*model.Comment
	for i := range flat {
		c := &flat[i]
		if c.ParentCommentID == nil {
			topLevel = append(topLevel, c)
		} else {
			children[*c.ParentCommentID] = append(children[*c.ParentCommentID], c)
		}
	}

	for _, c := range topLevel {
		result[c.PostID] = append(result[c.PostID], materialize(c, children))
	}
	return result, nil
}

// materialize copies a comment node with its reply subtree attached.
func materialize(c *model.Comment, children map[int64][]*model.Comment) model.Comment {
	out := *c
	out.Replies = []model.Comment{}
	for _, child := range children[c.ID] {
		out.Replies = append(out.Replies, materialize(child, children))
	}
	return out
}
