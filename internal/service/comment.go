package service

import (
	"context"
	"errors"
	"log"

	"micronet/internal/model"
	"micronet/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// Create adds a comment to a post and returns the ENTIRE parent post,
// freshly re-annotated for the commenter and carrying the extended
// top-level comment list. Callers get a full-post payload, not the new
// comment.
//
// Parent resolution: a missing parent id silently falls back to a
// top-level comment; a parent from another post is rejected before the
// insert (the same-post invariant is checked at write time).
func (s *CommentService) Create(ctx context.Context, userID int64, in model.CommentIn) (*model.Post, error) {
	exists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	var parentID *int64
	if in.CommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.CommentID)
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			// Unresolvable parent: create a top-level comment instead.
			log.Printf("[CommentService] Parent comment %d not found, creating top-level comment", *in.CommentID)
		case err != nil:
			return nil, err
		case parent.PostID != in.PostID:
			return nil, model.ErrParentCommentMismatch
		default:
			parentID = &parent.ID
		}
	}

	if _, err := s.commentRepo.Create(ctx, in.PostID, userID, in.Text, parentID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.FetchByID(ctx, in.PostID, &userID)
	if err != nil {
		return nil, err
	}

	decorated := []model.Post{*post}
	if err := attachComments(ctx, s.commentRepo, decorated); err != nil {
		return nil, err
	}
	return &decorated[0], nil
}
