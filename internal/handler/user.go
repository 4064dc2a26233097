package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"micronet/internal/httputil"
	"micronet/internal/model"
	"micronet/internal/service"
	"micronet/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Profile handles GET /profile/{username}/{page}
// Returns the user's profile with follow counts and one page of their
// posts, annotated for the caller.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	username := chi.URLParam(r, "username")
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid page number")
		return
	}

	profile, err := h.userService.Profile(r.Context(), username, &userID, page)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w)
			return
		}
		log.Printf("[ERROR] Profile handler: target=%s err=%v", username, err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles POST /update_profile
// Multipart form with username, email, about and an optional photo
// file. Field failures come back as the field-keyed errors envelope;
// nothing is persisted unless every field passes.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	// Generous cap so oversized photos reach the size validation and
	// produce the field error instead of an opaque body-too-large.
	maxFormSize := int64(model.MaxPhotoSizeBytes)*2 + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.WriteValidationErrors(w, map[string]string{
				"photo": "File size must not be greater than 2.5 MB.",
			})
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	// Validation happens in the service, after the uniqueness checks,
	// so the error map carries both kinds of failure at once.
	in := model.ProfileIn{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		About:    strings.TrimSpace(r.FormValue("about")),
	}

	var photo []byte
	file, _, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		photo, err = io.ReadAll(file)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid photo upload")
			return
		}
	} else if err != http.ErrMissingFile {
		httputil.WriteBadRequest(w, "Invalid photo upload")
		return
	}

	settings, fieldErrors, err := h.userService.UpdateProfile(r.Context(), userID, in, photo)
	if err != nil {
		log.Printf("[ERROR] Update profile handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to update profile")
		return
	}
	if fieldErrors != nil {
		httputil.WriteValidationErrors(w, fieldErrors)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, settings)
}
