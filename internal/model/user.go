package model

import (
	"errors"
)

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"-"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	About          string    `db:"about" json:"about"`
	PasswordHashed string    `db:"password_hashed" json:"-"`
	PhotoURL       *string   `db:"photo_url" json:"photo"`
	PhotoKey       *string   `db:"photo_key" json:"-"`
	LastLogin      Timestamp `db:"last_login" json:"lastLogin"`
	DateJoined     Timestamp `db:"date_joined" json:"dateJoined"`
}

// Profile is a user decorated for the profile endpoint: follow counts,
// the viewer's follow status and a page of the user's posts.
type Profile struct {
	User
	FollowersCount int            `db:"followers_count" json:"followersCount"`
	FollowingCount int            `db:"following_count" json:"followingCount"`
	IsFollowing    bool           `db:"is_following" json:"isFollowing"`
	PostsData      PaginatedPosts `json:"postsData"`
}

// ProfileSettings is the response shape for update_profile.
type ProfileSettings struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Photo    *string `json:"photo"`
	About    string  `json:"about"`
}

// ProfileIn carries the update_profile form fields.
type ProfileIn struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	About    string `json:"about" validate:"max=200"`
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// Profile photo constraints. Content type is sniffed from the bytes,
// never trusted from the upload headers.
const (
	MaxPhotoSizeBytes = 2_621_440 // 2.5 MiB
	ContentTypeJPEG   = "image/jpeg"
	ContentTypePNG    = "image/png"
)

// IsAllowedPhotoType reports whether a sniffed content type is accepted
// for profile photos.
func IsAllowedPhotoType(contentType string) bool {
	return contentType == ContentTypeJPEG || contentType == ContentTypePNG
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already in use")
	ErrEmailExists        = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhotoTooLarge      = errors.New("photo exceeds the maximum file size")
	ErrInvalidPhotoType   = errors.New("photo file type is not supported")
)
