package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"micronet/internal/config"
	"micronet/internal/httputil"
	"micronet/internal/model"
	"micronet/internal/service"
	"micronet/internal/validation"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
	config      *config.Config
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		config:      cfg,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if fieldErrors := validation.Struct(req); fieldErrors != nil {
		httputil.WriteValidationErrors(w, fieldErrors)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteValidationErrors(w, map[string]string{
				"username": "Username " + req.Username + " is already in use.",
			})
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteValidationErrors(w, map[string]string{
				"email": req.Email + " is already in use.",
			})
		default:
			log.Printf("[ERROR] Register handler: username=%s err=%v", req.Username, err)
			httputil.WriteInternalError(w, "Failed to register")
		}
		return
	}

	h.respondWithToken(w, user, http.StatusCreated)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := validation.Struct(req); fieldErrors != nil {
		httputil.WriteValidationErrors(w, fieldErrors)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		log.Printf("[ERROR] Login handler: username=%s err=%v", req.Username, err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	h.respondWithToken(w, user, http.StatusOK)
}

// Logout handles POST /logout
// Stateless tokens cannot be revoked server-side; logout clears the
// cookie so browser sessions end immediately.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// respondWithToken issues an access token for the user, sets it as an
// HTTP-only cookie for web clients and echoes it in the body for
// mobile clients.
func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user *model.User, status int) {
	token, err := h.authService.GenerateAccessToken(user.ID)
	if err != nil {
		log.Printf("[ERROR] Token generation: user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		MaxAge:   h.config.AccessTokenMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, status, model.AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   h.config.AccessTokenMaxAge,
	})
}
