package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"micronet/internal/cache"
	"micronet/internal/config"
	"micronet/internal/database"
	"micronet/internal/handler"
	"micronet/internal/redis"
	"micronet/internal/repository"
	"micronet/internal/service"
	"micronet/internal/storage"
)

// Run wires the whole application explicitly and starts the HTTP
// server. Construction order is config, stores, repositories,
// services, handlers, router; nothing is initialized as a side effect
// of an import.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// The timeline cache is optional. Without Redis every timeline read
	// goes to the database.
	var timeline cache.TimelineCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := redisClient.Ping(context.Background()); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		defer redisClient.Close()
		timeline = cache.NewTimelineCache(redisClient.Client)
	} else {
		log.Println("REDIS_URL not set, timeline cache disabled")
	}

	photos, err := storage.NewS3PhotoStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create photo store: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, postRepo, commentRepo, photos)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, timeline)
	commentService := service.NewCommentService(commentRepo, postRepo)
	followService := service.NewFollowService(followRepo, userRepo)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService, cfg),
		UserHandler:    handler.NewUserHandler(userService),
		FollowHandler:  handler.NewFollowHandler(followService),
		PostHandler:    handler.NewPostHandler(postService),
		CommentHandler: handler.NewCommentHandler(commentService),
		JWTSecret:      cfg.JWTSecret,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
