package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"micronet/internal/model"
	"micronet/internal/pagination"
	"micronet/internal/repository"
	"micronet/internal/storage"
	"micronet/internal/validation"
)

type UserService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	photos      storage.PhotoStore
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	photos storage.PhotoStore,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		photos:      photos,
	}
}

// Register creates a new account.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.TrimSpace(req.Email),
		PasswordHashed: string(hashed),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user. The error never reveals whether the
// username exists.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[UserService] Failed to update last login for user %d: %v", user.ID, err)
	}
	return user, nil
}

// Profile returns the user decorated with follow counts and the
// viewer's follow status, plus one page of the user's annotated posts
// with comments attached. Fails with ErrUserNotFound for an unknown
// username.
func (s *UserService) Profile(ctx context.Context, username string, viewerID *int64, page int) (*model.Profile, error) {
	profile, err := s.userRepo.GetProfile(ctx, username, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.FetchByUser(ctx, profile.ID, viewerID)
	if err != nil {
		return nil, err
	}

	pg := pagination.Posts(posts, page)
	if err := attachComments(ctx, s.commentRepo, pg.Posts); err != nil {
		return nil, err
	}

	profile.PostsData = pg
	return profile, nil
}

// UpdateProfile validates and persists profile changes. Uniqueness of
// username/email against all OTHER users is checked first, then
// field-level validation, then the photo; all failures are collected
// into one field-keyed error map and nothing is persisted.
//
// Photo replacement order: the previous stored object is deleted only
// after the new photo passes validation, and before the new row is
// saved. A failure between those two steps loses the old photo without
// persisting the new state; the source behavior is preserved as-is.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in model.ProfileIn, photo []byte) (*model.ProfileSettings, map[string]string, error) {
	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	fieldErrors := map[string]string{}

	if in.Username != current.Username {
		taken, err := s.userRepo.ExistsOtherWithUsername(ctx, in.Username, userID)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			fieldErrors["username"] = fmt.Sprintf("Username %s is already in use.", in.Username)
		}
	}

	if in.Email != current.Email {
		taken, err := s.userRepo.ExistsOtherWithEmail(ctx, in.Email, userID)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			fieldErrors["email"] = fmt.Sprintf("%s is already in use.", in.Email)
		}
	}

	// Field-level validation runs after the uniqueness checks so a
	// taken name is reported even when another field is also invalid.
	for field, msg := range validation.Struct(in) {
		if _, seen := fieldErrors[field]; !seen {
			fieldErrors[field] = msg
		}
	}

	var contentType string
	if len(photo) > 0 {
		contentType, err = ValidatePhoto(photo)
		if err != nil {
			fieldErrors["photo"] = photoErrorMessage(err, contentType)
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	var newURL, newKey *string
	if len(photo) > 0 {
		if current.PhotoKey != nil {
			if err := s.photos.Delete(ctx, *current.PhotoKey); err != nil {
				log.Printf("[UserService] Failed to delete previous photo %s: %v", *current.PhotoKey, err)
			}
		}

		url, key, err := s.photos.Upload(ctx, photo, contentType)
		if err != nil {
			return nil, nil, err
		}
		newURL, newKey = &url, &key
	}

	updated, err := s.userRepo.UpdateProfile(ctx, userID, in.Username, in.Email, in.About, newURL, newKey)
	if err != nil {
		// Unique races past the pre-checks surface as field errors too.
		switch {
		case errors.Is(err, model.ErrUsernameExists):
			return nil, map[string]string{"username": fmt.Sprintf("Username %s is already in use.", in.Username)}, nil
		case errors.Is(err, model.ErrEmailExists):
			return nil, map[string]string{"email": fmt.Sprintf("%s is already in use.", in.Email)}, nil
		}
		return nil, nil, err
	}

	return &model.ProfileSettings{
		Username: updated.Username,
		Email:    updated.Email,
		Photo:    updated.PhotoURL,
		About:    updated.About,
	}, nil, nil
}

// ValidatePhoto enforces the size cap and the sniffed content type.
// The declared upload type is ignored; the type comes from the bytes.
func ValidatePhoto(data []byte) (string, error) {
	if int64(len(data)) > model.MaxPhotoSizeBytes {
		return "", model.ErrPhotoTooLarge
	}

	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	contentType := http.DetectContentType(data[:sniffLen])

	if !model.IsAllowedPhotoType(contentType) {
		return contentType, model.ErrInvalidPhotoType
	}
	return contentType, nil
}

func photoErrorMessage(err error, contentType string) string {
	switch {
	case errors.Is(err, model.ErrPhotoTooLarge):
		return "File size must not be greater than 2.5 MB."
	case errors.Is(err, model.ErrInvalidPhotoType):
		return fmt.Sprintf("File of type %s is not supported.", contentType)
	}
	return "Invalid photo."
}
