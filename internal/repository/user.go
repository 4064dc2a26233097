package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"micronet/internal/model"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, about, password_hashed, photo_url, photo_key, last_login, date_joined`

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, about, password_hashed, photo_url, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, last_login, date_joined
	`
	row := r.db.QueryRowxContext(ctx, query,
		u.Username, u.Email, u.About, u.PasswordHashed, u.PhotoURL, u.PhotoKey)

	if err := row.Scan(&u.ID, &u.LastLogin, &u.DateJoined); err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return model.ErrUsernameExists
		}
		if isUniqueViolation(err, "users_email_key") {
			return model.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

// GetProfile decorates the user with follow counts and the viewer's
// follow status in one statement. Counts are aggregate subqueries over
// the edge set, never stored counters. viewerID may be NULL.
func (r *userRepository) GetProfile(ctx context.Context, username string, viewerID *int64) (*model.Profile, error) {
	query := `
		SELECT u.id, u.username, u.email, u.about, u.password_hashed, u.photo_url, u.photo_key,
		       u.last_login, u.date_joined,
		       (SELECT COUNT(*) FROM follows f WHERE f.followee_id = u.id) AS followers_count,
		       (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count,
		       EXISTS(
		           SELECT 1 FROM follows f
		           WHERE f.follower_id = $2 AND f.followee_id = u.id
		       ) AS is_following
		FROM users u
		WHERE u.username = $1
	`
	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, username, viewerID)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *userRepository) ExistsOtherWithUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username, excludeID); err != nil {
		return false, fmt.Errorf("check username existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) ExistsOtherWithEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, excludeID); err != nil {
		return false, fmt.Errorf("check email existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile persists the profile fields. Photo columns only change
// when a replacement was uploaded (non-nil). The unique-violation
// mapping is a backstop for races past the pre-checks.
func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, username, email, about string, photoURL, photoKey *string) (*model.User, error) {
	query := `
		UPDATE users
		SET username = $1, email = $2, about = $3,
		    photo_url = COALESCE($4, photo_url),
		    photo_key = COALESCE($5, photo_key)
		WHERE id = $6
		RETURNING ` + userColumns + `
	`
	var u model.User
	err := r.db.GetContext(ctx, &u, query, username, email, about, photoURL, photoKey, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return nil, model.ErrUsernameExists
		}
		if isUniqueViolation(err, "users_email_key") {
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint error
// (pq code 23505) on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505" && pqErr.Constraint == constraint
}
