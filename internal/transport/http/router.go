package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"micronet/internal/handler"
	"micronet/internal/httputil"
	authmw "micronet/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	FollowHandler  *handler.FollowHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		// The public timeline works anonymously; a valid token upgrades
		// the per-viewer annotations.
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).
			Get("/all_posts/{page}", cfg.PostHandler.AllPosts)

		// Protected routes - require authentication
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

			r.Post("/new_post", cfg.PostHandler.Create)
			r.Post("/edit_post", cfg.PostHandler.Edit)
			r.Patch("/like_post/{postID}", cfg.PostHandler.ToggleLike)
			r.Get("/following_posts/{page}", cfg.PostHandler.FollowingPosts)

			r.Post("/new_comment", cfg.CommentHandler.Create)

			r.Post("/follow/{username}", cfg.FollowHandler.Toggle)

			r.Get("/profile/{username}/{page}", cfg.UserHandler.Profile)
			r.Post("/update_profile", cfg.UserHandler.UpdateProfile)
		})
	})

	return r
}
