package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/streadway/amqp"

	"blog/internal/apperrors"
	"blog/internal/auth"
	"blog/internal/cache"
	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/handlers"
	"blog/internal/middleware"
	"blog/internal/services"
	"blog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, cleanup, err := NewApp(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (store: %s)", cfg.AppPort, cfg.StoreDriver)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires the store, cache, broker, services and routes described by cfg.
// The returned cleanup releases every connection NewApp opened.
func NewApp(ctx context.Context, cfg *config.Config) (*fiber.App, func(), error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	closers := []func(){closeStore}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	likeCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if likeCache != nil {
		closers = append(closers, func() { likeCache.Close() })
	}

	// --- Initialize RabbitMQ Client ---
	// Events are optional; a nil publisher disables them.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := mqClient.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		})
		if err := mqClient.ConsumeEvents(func(msg amqp.Delivery) error {
			return logActivity(msg.Body)
		}); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
		publisher = mqClient
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(store.Users, auth.NewPasswordHasher(cfg.BcryptCost), tokens)
	postService := services.NewPostService(store.Posts, publisher)
	commentService := services.NewCommentService(store.Comments, store.Posts, publisher)
	likeService := services.NewLikeService(store.Likes, store.Posts, likeCache, publisher)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "blog",
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(storeTimeout(cfg.StoreTimeout))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.StoreDriver,
			"cache":  likeCache != nil,
			"events": publisher != nil,
		})
	})

	// --- API Routes ---
	authRequired := middleware.AuthRequired(authService)
	handlers.NewAuthHandler(authService).RegisterRoutes(app, authRequired)
	handlers.NewPostHandler(postService).RegisterRoutes(app, authRequired)
	handlers.NewCommentHandler(commentService).RegisterRoutes(app, authRequired)
	handlers.NewLikeHandler(likeService).RegisterRoutes(app, authRequired)

	return app, cleanup, nil
}

// storeTimeout bounds every store call made while serving a request.
func storeTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandler renders errors that escape the handlers, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}
	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": apperrors.MessageOf(err),
		"code":    apperrors.KindInternal,
	})
}

// logActivity is the consumer side of the activity feed.
func logActivity(body []byte) error {
	var evt services.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("failed to decode activity event: %w", err)
	}
	if evt.Type == "" {
		return errors.New("activity event has no type")
	}
	log.Printf("Activity: %s by %s (post %s, comment %s)", evt.Type, evt.ActorID, evt.PostID, evt.CommentID)
	return nil
}
