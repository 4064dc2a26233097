package service

import (
	"context"
	"log"

	"micronet/internal/cache"
	"micronet/internal/model"
	"micronet/internal/pagination"
	"micronet/internal/repository"
)

// TimelineWarmLimit caps how many posts the timeline cache holds. A
// cache at the cap may be truncated, so reads only trust it below the
// limit.
const TimelineWarmLimit = 500

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	timeline    cache.TimelineCache
}

// NewPostService wires the post operations. timeline may be nil; every
// read then goes straight to the database.
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	timeline cache.TimelineCache,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		timeline:    timeline,
	}
}

// Create persists a new post and registers the author as its first
// liker, so the post starts with likes=1 and likedByUser=true for the
// creator. Independent statements, no wrapping transaction.
func (s *PostService) Create(ctx context.Context, userID int64, text string) (*model.Post, error) {
	post, err := s.postRepo.Create(ctx, userID, text)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Like(ctx, post.ID, userID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post.Username = author.Username
	post.IsOwner = true
	post.IsFollowing = false
	post.Likes = 1
	post.LikedByUser = true
	post.Comments = []model.Comment{}

	if s.timeline != nil {
		ts := post.PublicationDate.Time().Unix()
		if err := s.timeline.AddPost(ctx, post.ID, ts); err != nil {
			log.Printf("[PostService] Timeline add failed: post=%d err=%v", post.ID, err)
		}
	}

	return post, nil
}

// Edit updates a post's text. The repository looks the post up by both
// id and owner, so a non-owner edit surfaces as ErrPostNotFound and
// leaves the post untouched.
func (s *PostService) Edit(ctx context.Context, postID, userID int64, text string) (*model.EditedPost, error) {
	post, err := s.postRepo.Edit(ctx, postID, userID, text)
	if err != nil {
		return nil, err
	}

	return &model.EditedPost{
		ID:           post.ID,
		Text:         post.Text,
		Edited:       post.Edited,
		LastModified: post.LastModified,
	}, nil
}

// ToggleLike flips the requester's membership in the post's liker set
// and reports the resulting count and membership. The count is always
// the set's cardinality, re-read after the mutation.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID int64) (*model.LikeResult, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	liked, err := s.postRepo.IsLikedBy(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, postID, userID)
	} else {
		err = s.postRepo.Like(ctx, postID, userID)
	}
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &model.LikeResult{
		ID:          postID,
		Likes:       count,
		LikedByUser: !liked,
	}, nil
}

// FetchAllPage returns one page of the public timeline, annotated for
// the viewer (nil for anonymous), with top-level comments attached to
// the page's posts in one batch fetch.
func (s *PostService) FetchAllPage(ctx context.Context, viewerID *int64, page int) (*model.PaginatedPosts, error) {
	posts, err := s.timelinePosts(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	pg := pagination.Posts(posts, page)
	if err := attachComments(ctx, s.commentRepo, pg.Posts); err != nil {
		return nil, err
	}
	return &pg, nil
}

// FetchFollowingPage is FetchAllPage restricted to authors the viewer
// follows. Always reads the database: the follow filter is per-viewer.
func (s *PostService) FetchFollowingPage(ctx context.Context, viewerID int64, page int) (*model.PaginatedPosts, error) {
	posts, err := s.postRepo.FetchFollowing(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	pg := pagination.Posts(posts, page)
	if err := attachComments(ctx, s.commentRepo, pg.Posts); err != nil {
		return nil, err
	}
	return &pg, nil
}

// timelinePosts serves the ordered post list from the cache when it is
// populated, falling back to the database and re-warming on a miss.
// Cache failures degrade to the database, never fail the request.
func (s *PostService) timelinePosts(ctx context.Context, viewerID *int64) ([]model.Post, error) {
	if s.timeline != nil {
		exists, err := s.timeline.Exists(ctx)
		if err != nil {
			log.Printf("[PostService] Timeline check failed: %v", err)
		} else if exists {
			ids, err := s.timeline.PostIDs(ctx)
			switch {
			case err != nil:
				log.Printf("[PostService] Timeline read failed, falling back to DB: %v", err)
			case len(ids) >= TimelineWarmLimit:
				// The cache never holds more than the warm limit, so a
				// full set may be missing older posts. The listing must
				// be exhaustive; read the database instead.
				return s.postRepo.FetchAll(ctx, viewerID)
			default:
				return s.postRepo.FetchByIDs(ctx, ids, viewerID)
			}
		}
	}

	posts, err := s.postRepo.FetchAll(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if s.timeline != nil {
		scores, err := s.postRepo.RecentPostScores(ctx, TimelineWarmLimit)
		if err != nil {
			log.Printf("[PostService] Timeline warm skipped: %v", err)
		} else if err := s.timeline.Warm(ctx, scores); err != nil {
			log.Printf("[PostService] Timeline warm failed: %v", err)
		}
	}

	return posts, nil
}

// attachComments loads the top-level comment trees for the given posts
// in one query and attaches them in place.
func attachComments(ctx context.Context, repo repository.CommentRepository, posts []model.Post) error {
	ids := make([]int64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	comments, err := repo.ForPosts(ctx, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		posts[i].Comments = comments[posts[i].ID]
		if posts[i].Comments == nil {
			posts[i].Comments = []model.Comment{}
		}
	}
	return nil
}
