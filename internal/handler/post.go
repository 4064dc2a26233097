package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"micronet/internal/httputil"
	"micronet/internal/model"
	"micronet/internal/service"
	"micronet/internal/transport/http/middleware"
	"micronet/internal/validation"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create handles POST /new_post
// Creates a post for the authenticated user and returns it fully
// annotated for the author.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var in model.PostIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	in.Text = strings.TrimSpace(in.Text)
	if fieldErrors := validation.Struct(in); fieldErrors != nil {
		httputil.WriteValidationErrors(w, fieldErrors)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, in.Text)
	if err != nil {
		log.Printf("[ERROR] Create post handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Edit handles POST /edit_post
// Rewrites the text of one of the caller's own posts. A post id that
// does not exist or belongs to someone else yields 404 either way.
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var in model.PostIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	in.Text = strings.TrimSpace(in.Text)
	if fieldErrors := validation.Struct(in); fieldErrors != nil {
		httputil.WriteValidationErrors(w, fieldErrors)
		return
	}

	edited, err := h.postService.Edit(r.Context(), in.PostID, userID, in.Text)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w)
			return
		}
		log.Printf("[ERROR] Edit post handler: user=%d post=%d err=%v", userID, in.PostID, err)
		httputil.WriteInternalError(w, "Failed to edit post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, edited)
}

// ToggleLike handles PATCH /like_post/{postID}
// Adds or removes the caller from the post's liker set and returns the
// resulting count and membership.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	result, err := h.postService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w)
			return
		}
		log.Printf("[ERROR] Like post handler: user=%d post=%d err=%v", userID, postID, err)
		httputil.WriteInternalError(w, "Failed to like post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// AllPosts handles GET /all_posts/{page}
// Public timeline, newest first. Works without authentication; a valid
// token upgrades the annotations to the viewer's perspective.
func (h *PostHandler) AllPosts(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid page number")
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	posts, err := h.postService.FetchAllPage(r.Context(), viewerID, page)
	if err != nil {
		log.Printf("[ERROR] All posts handler: page=%d err=%v", page, err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// FollowingPosts handles GET /following_posts/{page}
// The timeline restricted to authors the caller follows.
func (h *PostHandler) FollowingPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid page number")
		return
	}

	posts, err := h.postService.FetchFollowingPage(r.Context(), userID, page)
	if err != nil {
		log.Printf("[ERROR] Following posts handler: user=%d page=%d err=%v", userID, page, err)
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}
