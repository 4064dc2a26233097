package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"micronet/internal/cache"
	"micronet/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// annotatedSelect is the shared head of every post read. $1 is always
// the viewing user's id and may be NULL for anonymous viewers: the
// EXISTS subqueries then match nothing and COALESCE forces is_owner to
// false. One statement per call, no per-row queries.
const annotatedSelect = `
	SELECT p.id, p.user_id, u.username, p.text, p.edited, p.publication_date, p.last_modified,
	       COALESCE(p.user_id = $1, FALSE) AS is_owner,
	       EXISTS(
	           SELECT 1 FROM follows f
	           WHERE f.follower_id = $1 AND f.followee_id = p.user_id
	       ) AS is_following,
	       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes,
	       EXISTS(
	           SELECT 1 FROM post_likes pl
	           WHERE pl.post_id = p.id AND pl.user_id = $1
	       ) AS liked_by_user
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

const newestFirst = ` ORDER BY p.publication_date DESC, p.id DESC`

// Create inserts a new post. The creator's like is added separately by
// the service (independent statements, no wrapping transaction).
func (r *postRepository) Create(ctx context.Context, userID int64, text string) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, text)
		VALUES ($1, $2)
		RETURNING id, user_id, text, edited, publication_date, last_modified
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, text)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &post, nil
}

// Edit updates text and bumps the edited flag in a single lookup keyed
// by both id and owner. No rows means not found, whether the post is
// missing or owned by someone else.
func (r *postRepository) Edit(ctx context.Context, postID, userID int64, text string) (*model.Post, error) {
	query := `
		UPDATE posts
		SET text = $1, edited = TRUE, last_modified = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, text, edited, publication_date, last_modified
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, text, postID, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("edit post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) FetchAll(ctx context.Context, viewerID *int64) ([]model.Post, error) {
	query := annotatedSelect + newestFirst

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch all posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) FetchFollowing(ctx context.Context, viewerID int64) ([]model.Post, error) {
	query := annotatedSelect + `
	WHERE p.user_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)` + newestFirst

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch following posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) FetchByUser(ctx context.Context, authorID int64, viewerID *int64) ([]model.Post, error) {
	query := annotatedSelect + ` WHERE p.user_id = $2` + newestFirst

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, viewerID, authorID)
	if err != nil {
		return nil, fmt.Errorf("fetch posts by user: %w", err)
	}
	return posts, nil
}

func (r *postRepository) FetchByID(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error) {
	query := annotatedSelect + ` WHERE p.id = $2`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, viewerID, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch post: %w", err)
	}
	return &post, nil
}

// FetchByIDs hydrates posts for cached timeline ids. Results are
// re-ordered to match the input order, dropping ids the database no
// longer has.
func (r *postRepository) FetchByIDs(ctx context.Context, postIDs []int64, viewerID *int64) ([]model.Post, error) {
	if len(postIDs) == 0 {
		return []model.Post{}, nil
	}

	query := annotatedSelect + ` WHERE p.id = ANY($2)`

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, viewerID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch posts by ids: %w", err)
	}

	byID := make(map[int64]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]model.Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Like adds the user to the post's liker set. Re-liking is a no-op so
// concurrent toggles settle on set membership, not a counter.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) error {
	query := `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *postRepository) IsLikedBy(ctx context.Context, postID, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`
	var liked bool
	if err := r.db.GetContext(ctx, &liked, query, postID, userID); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// LikeCount is always the liker set's cardinality.
func (r *postRepository) LikeCount(ctx context.Context, postID int64) (int, error) {
	query := `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, postID); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, postID); err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

// RecentPostScores returns the newest post ids with their publication
// epoch, for warming the timeline cache.
func (r *postRepository) RecentPostScores(ctx context.Context, limit int) ([]cache.PostScore, error) {
	query := `
		SELECT id, EXTRACT(EPOCH FROM publication_date)::bigint AS timestamp
		FROM posts
		ORDER BY publication_date DESC, id DESC
		LIMIT $1
	`
	type row struct {
		ID        int64 `db:"id"`
		Timestamp int64 `db:"timestamp"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("recent post scores: %w", err)
	}

	scores := make([]cache.PostScore, len(rows))
	for i, r := range rows {
		scores[i] = cache.PostScore{PostID: r.ID, Timestamp: r.Timestamp}
	}
	return scores, nil
}
