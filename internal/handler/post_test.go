package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"micronet/internal/model"
	"micronet/internal/repository"
	"micronet/internal/service"
	"micronet/internal/transport/http/middleware"
)

// Stubs embed the repository interface and override only the methods a
// test route actually reaches; anything else panics loudly.

type stubPostRepo struct {
	repository.PostRepository
	editFn     func(ctx context.Context, postID, userID int64, text string) (*model.Post, error)
	fetchAllFn func(ctx context.Context, viewerID *int64) ([]model.Post, error)
}

func (s *stubPostRepo) Edit(ctx context.Context, postID, userID int64, text string) (*model.Post, error) {
	return s.editFn(ctx, postID, userID, text)
}

func (s *stubPostRepo) FetchAll(ctx context.Context, viewerID *int64) ([]model.Post, error) {
	return s.fetchAllFn(ctx, viewerID)
}

type stubCommentRepo struct {
	repository.CommentRepository
}

func (s *stubCommentRepo) ForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	return map[int64][]model.Comment{}, nil
}

type stubUserRepo struct {
	repository.UserRepository
}

func newPostHandler(postRepo repository.PostRepository) *PostHandler {
	svc := service.NewPostService(postRepo, &stubCommentRepo{}, &stubUserRepo{}, nil)
	return NewPostHandler(svc)
}

func authed(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

func TestPostHandler_Edit_NotOwnerIsNotFound(t *testing.T) {
	h := newPostHandler(&stubPostRepo{
		editFn: func(ctx context.Context, postID, userID int64, text string) (*model.Post, error) {
			return nil, model.ErrPostNotFound
		},
	})

	body := strings.NewReader(`{"postID": 1, "text": "updated text"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/edit_post", body), 7)
	rec := httptest.NewRecorder()

	h.Edit(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp["error"] != "The requested object does not exist." {
		t.Errorf("error = %q, want the generic missing-object message", resp["error"])
	}
}

func TestPostHandler_Edit_ValidationEnvelope(t *testing.T) {
	h := newPostHandler(&stubPostRepo{})

	body := strings.NewReader(`{"postID": 1, "text": "ab"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/edit_post", body), 7)
	rec := httptest.NewRecorder()

	h.Edit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Errors["text"] != "Post must be at least 3 characters long." {
		t.Errorf("text error = %q", resp.Errors["text"])
	}
}

func TestPostHandler_Edit_Unauthenticated(t *testing.T) {
	h := newPostHandler(&stubPostRepo{})

	body := strings.NewReader(`{"postID": 1, "text": "updated text"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/edit_post", body)
	rec := httptest.NewRecorder()

	h.Edit(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestPostHandler_AllPosts_AnonymousViewer(t *testing.T) {
	var gotViewer *int64
	sawCall := false
	h := newPostHandler(&stubPostRepo{
		fetchAllFn: func(ctx context.Context, viewerID *int64) ([]model.Post, error) {
			sawCall = true
			gotViewer = viewerID
			return []model.Post{{ID: 1, Text: "hello"}}, nil
		},
	})

	r := chi.NewRouter()
	r.Get("/api/all_posts/{page}", h.AllPosts)

	req := httptest.NewRequest(http.MethodGet, "/api/all_posts/1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !sawCall {
		t.Fatal("FetchAll was never reached")
	}
	if gotViewer != nil {
		t.Errorf("anonymous request must pass a nil viewer, got %d", *gotViewer)
	}

	var resp model.PaginatedPosts
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.NumPages != 1 || len(resp.Posts) != 1 {
		t.Errorf("numPages = %d posts = %d, want 1/1", resp.NumPages, len(resp.Posts))
	}
}

func TestPostHandler_ToggleLike_InvalidID(t *testing.T) {
	h := newPostHandler(&stubPostRepo{})

	r := chi.NewRouter()
	r.Patch("/api/like_post/{postID}", func(w http.ResponseWriter, req *http.Request) {
		h.ToggleLike(w, authed(req, 7))
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/like_post/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
