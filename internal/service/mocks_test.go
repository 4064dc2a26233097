package service

import (
	"context"

	"micronet/internal/cache"
	"micronet/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// The services depend on the repository INTERFACES, so tests swap in mocks
// whose behavior each test defines through function fields. Unset fields get
// a harmless default.

type mockUserRepository struct {
	createFn                  func(ctx context.Context, user *model.User) error
	getByIDFn                 func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn           func(ctx context.Context, username string) (*model.User, error)
	getProfileFn              func(ctx context.Context, username string, viewerID *int64) (*model.Profile, error)
	existsOtherWithUsernameFn func(ctx context.Context, username string, excludeID int64) (bool, error)
	existsOtherWithEmailFn    func(ctx context.Context, email string, excludeID int64) (bool, error)
	updateProfileFn           func(ctx context.Context, userID int64, username, email, about string, photoURL, photoKey *string) (*model.User, error)
	updateLastLoginFn         func(ctx context.Context, userID int64) error

	createCalls        int
	updateProfileCalls int
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetProfile(ctx context.Context, username string, viewerID *int64) (*model.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, username, viewerID)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsOtherWithUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	if m.existsOtherWithUsernameFn != nil {
		return m.existsOtherWithUsernameFn(ctx, username, excludeID)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsOtherWithEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	if m.existsOtherWithEmailFn != nil {
		return m.existsOtherWithEmailFn(ctx, email, excludeID)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, userID int64, username, email, about string, photoURL, photoKey *string) (*model.User, error) {
	m.updateProfileCalls++
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, username, email, about, photoURL, photoKey)
	}
	return &model.User{ID: userID, Username: username, Email: email, About: about, PhotoURL: photoURL, PhotoKey: photoKey}, nil
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, userID)
	}
	return nil
}

type likeCall struct {
	PostID int64
	UserID int64
}

type mockPostRepository struct {
	createFn           func(ctx context.Context, userID int64, text string) (*model.Post, error)
	editFn             func(ctx context.Context, postID, userID int64, text string) (*model.Post, error)
	fetchAllFn         func(ctx context.Context, viewerID *int64) ([]model.Post, error)
	fetchFollowingFn   func(ctx context.Context, viewerID int64) ([]model.Post, error)
	fetchByUserFn      func(ctx context.Context, authorID int64, viewerID *int64) ([]model.Post, error)
	fetchByIDFn        func(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error)
	fetchByIDsFn       func(ctx context.Context, postIDs []int64, viewerID *int64) ([]model.Post, error)
	likeFn             func(ctx context.Context, postID, userID int64) error
	unlikeFn           func(ctx context.Context, postID, userID int64) error
	isLikedByFn        func(ctx context.Context, postID, userID int64) (bool, error)
	likeCountFn        func(ctx context.Context, postID int64) (int, error)
	existsFn           func(ctx context.Context, postID int64) (bool, error)
	recentPostScoresFn func(ctx context.Context, limit int) ([]cache.PostScore, error)

	likeCalls   []likeCall
	unlikeCalls []likeCall
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, text string) (*model.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, text)
	}
	return &model.Post{ID: 1, UserID: userID, Text: text, PublicationDate: model.Now(), LastModified: model.Now()}, nil
}

func (m *mockPostRepository) Edit(ctx context.Context, postID, userID int64, text string) (*model.Post, error) {
	if m.editFn != nil {
		return m.editFn(ctx, postID, userID, text)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) FetchAll(ctx context.Context, viewerID *int64) ([]model.Post, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx, viewerID)
	}
	return nil, nil
}

func (m *mockPostRepository) FetchFollowing(ctx context.Context, viewerID int64) ([]model.Post, error) {
	if m.fetchFollowingFn != nil {
		return m.fetchFollowingFn(ctx, viewerID)
	}
	return nil, nil
}

func (m *mockPostRepository) FetchByUser(ctx context.Context, authorID int64, viewerID *int64) ([]model.Post, error) {
	if m.fetchByUserFn != nil {
		return m.fetchByUserFn(ctx, authorID, viewerID)
	}
	return nil, nil
}

func (m *mockPostRepository) FetchByID(ctx context.Context, postID int64, viewerID *int64) (*model.Post, error) {
	if m.fetchByIDFn != nil {
		return m.fetchByIDFn(ctx, postID, viewerID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) FetchByIDs(ctx context.Context, postIDs []int64, viewerID *int64) ([]model.Post, error) {
	if m.fetchByIDsFn != nil {
		return m.fetchByIDsFn(ctx, postIDs, viewerID)
	}
	return nil, nil
}

func (m *mockPostRepository) Like(ctx context.Context, postID, userID int64) error {
	m.likeCalls = append(m.likeCalls, likeCall{PostID: postID, UserID: userID})
	if m.likeFn != nil {
		return m.likeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) Unlike(ctx context.Context, postID, userID int64) error {
	m.unlikeCalls = append(m.unlikeCalls, likeCall{PostID: postID, UserID: userID})
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) IsLikedBy(ctx context.Context, postID, userID int64) (bool, error) {
	if m.isLikedByFn != nil {
		return m.isLikedByFn(ctx, postID, userID)
	}
	return false, nil
}

func (m *mockPostRepository) LikeCount(ctx context.Context, postID int64) (int, error) {
	if m.likeCountFn != nil {
		return m.likeCountFn(ctx, postID)
	}
	return 0, nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return false, nil
}

func (m *mockPostRepository) RecentPostScores(ctx context.Context, limit int) ([]cache.PostScore, error) {
	if m.recentPostScoresFn != nil {
		return m.recentPostScoresFn(ctx, limit)
	}
	return nil, nil
}

type commentCreateCall struct {
	PostID   int64
	UserID   int64
	Text     string
	ParentID *int64
}

type mockCommentRepository struct {
	createFn   func(ctx context.Context, postID, userID int64, text string, parentID *int64) (*model.Comment, error)
	getByIDFn  func(ctx context.Context, commentID int64) (*model.Comment, error)
	forPostsFn func(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error)

	createCalls []commentCreateCall
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, text string, parentID *int64) (*model.Comment, error) {
	m.createCalls = append(m.createCalls, commentCreateCall{PostID: postID, UserID: userID, Text: text, ParentID: parentID})
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, text, parentID)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Text: text, ParentCommentID: parentID}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) ForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	if m.forPostsFn != nil {
		return m.forPostsFn(ctx, postIDs)
	}
	return map[int64][]model.Comment{}, nil
}

type followCall struct {
	FollowerID int64
	FolloweeID int64
}

type mockFollowRepository struct {
	createFn func(ctx context.Context, followerID, followeeID int64) (bool, error)
	deleteFn func(ctx context.Context, followerID, followeeID int64) error
	existsFn func(ctx context.Context, followerID, followeeID int64) (bool, error)

	createCalls []followCall
	deleteCalls []followCall
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	m.createCalls = append(m.createCalls, followCall{FollowerID: followerID, FolloweeID: followeeID})
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followeeID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	m.deleteCalls = append(m.deleteCalls, followCall{FollowerID: followerID, FolloweeID: followeeID})
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followeeID)
	}
	return nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followeeID)
	}
	return false, nil
}

// =============================================================================
// MOCK TIMELINE CACHE AND PHOTO STORE
// =============================================================================

type mockTimelineCache struct {
	addPostFn func(ctx context.Context, postID, timestamp int64) error
	postIDsFn func(ctx context.Context) ([]int64, error)
	warmFn    func(ctx context.Context, posts []cache.PostScore) error
	existsFn  func(ctx context.Context) (bool, error)

	addCalls  int
	warmCalls int
}

func (m *mockTimelineCache) AddPost(ctx context.Context, postID, timestamp int64) error {
	m.addCalls++
	if m.addPostFn != nil {
		return m.addPostFn(ctx, postID, timestamp)
	}
	return nil
}

func (m *mockTimelineCache) PostIDs(ctx context.Context) ([]int64, error) {
	if m.postIDsFn != nil {
		return m.postIDsFn(ctx)
	}
	return nil, nil
}

func (m *mockTimelineCache) Warm(ctx context.Context, posts []cache.PostScore) error {
	m.warmCalls++
	if m.warmFn != nil {
		return m.warmFn(ctx, posts)
	}
	return nil
}

func (m *mockTimelineCache) Exists(ctx context.Context) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx)
	}
	return false, nil
}

type photoUploadCall struct {
	Data        []byte
	ContentType string
}

type mockPhotoStore struct {
	uploadFn func(ctx context.Context, data []byte, contentType string) (string, string, error)
	deleteFn func(ctx context.Context, key string) error

	uploadCalls []photoUploadCall
	deleteCalls []string
}

func (m *mockPhotoStore) Upload(ctx context.Context, data []byte, contentType string) (string, string, error) {
	m.uploadCalls = append(m.uploadCalls, photoUploadCall{Data: data, ContentType: contentType})
	if m.uploadFn != nil {
		return m.uploadFn(ctx, data, contentType)
	}
	return "https://cdn.example.com/profiles/new.jpg", "profiles/new.jpg", nil
}

func (m *mockPhotoStore) Delete(ctx context.Context, key string) error {
	m.deleteCalls = append(m.deleteCalls, key)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}
