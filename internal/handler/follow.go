package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"micronet/internal/httputil"
	"micronet/internal/model"
	"micronet/internal/service"
	"micronet/internal/transport/http/middleware"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

// Toggle handles POST /follow/{username}
// Follows the target when no edge exists, unfollows otherwise, and
// reports which one happened.
func (h *FollowHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")

	result, err := h.followService.Toggle(r.Context(), userID, username)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w)
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, "You cannot follow yourself")
		default:
			log.Printf("[ERROR] Follow handler: user=%d target=%s err=%v", userID, username, err)
			httputil.WriteInternalError(w, "Failed to update follow status")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
