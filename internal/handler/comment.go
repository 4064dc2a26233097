package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"micronet/internal/httputil"
	"micronet/internal/model"
	"micronet/internal/service"
	"micronet/internal/transport/http/middleware"
	"micronet/internal/validation"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create handles POST /new_comment
// Adds a comment (optionally a reply via commentID) and returns the
// whole parent post, re-annotated for the caller with the updated
// comment tree.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var in model.CommentIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	in.Text = strings.TrimSpace(in.Text)
	if fieldErrors := validation.Struct(in); fieldErrors != nil {
		httputil.WriteValidationErrors(w, fieldErrors)
		return
	}

	post, err := h.commentService.Create(r.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w)
		case errors.Is(err, model.ErrParentCommentMismatch):
			httputil.WriteBadRequest(w, "Parent comment belongs to a different post")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d post=%d err=%v", userID, in.PostID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}
