package service

import (
	"context"
	"errors"
	"testing"

	"micronet/internal/model"
)

func TestFollowService_Toggle(t *testing.T) {
	bob := &model.User{ID: 2, Username: "bob"}

	tests := []struct {
		name        string
		existing    bool
		wantMessage string
		wantCreates int
		wantDeletes int
	}{
		{
			name:        "follow when no edge exists",
			existing:    false,
			wantMessage: "You are now following bob",
			wantCreates: 1,
		},
		{
			name:        "unfollow when edge exists",
			existing:    true,
			wantMessage: "You are no longer following bob",
			wantDeletes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			followRepo := &mockFollowRepository{
				existsFn: func(ctx context.Context, followerID, followeeID int64) (bool, error) {
					return tt.existing, nil
				},
			}
			userRepo := &mockUserRepository{
				getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
					return bob, nil
				},
			}
			svc := NewFollowService(followRepo, userRepo)

			result, err := svc.Toggle(context.Background(), 1, "bob")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", result.Message, tt.wantMessage)
			}
			if len(followRepo.createCalls) != tt.wantCreates {
				t.Errorf("Create called %d times, want %d", len(followRepo.createCalls), tt.wantCreates)
			}
			if len(followRepo.deleteCalls) != tt.wantDeletes {
				t.Errorf("Delete called %d times, want %d", len(followRepo.deleteCalls), tt.wantDeletes)
			}
		})
	}
}

func TestFollowService_Toggle_SelfFollowRejectedBeforeMutation(t *testing.T) {
	followRepo := &mockFollowRepository{}
	userRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, Username: username}, nil
		},
	}
	svc := NewFollowService(followRepo, userRepo)

	_, err := svc.Toggle(context.Background(), 1, "alice")
	if !errors.Is(err, model.ErrCannotFollowSelf) {
		t.Fatalf("error = %v, want %v", err, model.ErrCannotFollowSelf)
	}

	// The guard is a precondition: the invalid edge never exists, even
	// transiently.
	if len(followRepo.createCalls) != 0 || len(followRepo.deleteCalls) != 0 {
		t.Error("self-follow must be rejected before any repository write")
	}
}

func TestFollowService_Toggle_UnknownUser(t *testing.T) {
	svc := NewFollowService(&mockFollowRepository{}, &mockUserRepository{})

	_, err := svc.Toggle(context.Background(), 1, "ghost")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}
