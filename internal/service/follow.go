package service

import (
	"context"
	"fmt"
	"log"

	"micronet/internal/model"
	"micronet/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Toggle follows the target when no edge exists and unfollows when one
// does. The self-follow guard is a precondition here, before any
// mutation, so the invalid edge never exists even transiently. The
// CHECK constraint on the follows table is only a backstop.
func (s *FollowService) Toggle(ctx context.Context, followerID int64, username string) (*model.FollowResult, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, model.ErrCannotFollowSelf
	}

	following, err := s.followRepo.Exists(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}

	if following {
		if err := s.followRepo.Delete(ctx, followerID, target.ID); err != nil {
			return nil, err
		}
		log.Printf("[FollowService] User %d unfollowed %s", followerID, username)
		return &model.FollowResult{
			Message: fmt.Sprintf("You are no longer following %s", username),
		}, nil
	}

	if _, err := s.followRepo.Create(ctx, followerID, target.ID); err != nil {
		return nil, err
	}
	log.Printf("[FollowService] User %d followed %s", followerID, username)
	return &model.FollowResult{
		Message: fmt.Sprintf("You are now following %s", username),
	}, nil
}
