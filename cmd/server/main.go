package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/stemsplitter/tracker/internal/client"
	"github.com/stemsplitter/tracker/internal/config"
	"github.com/stemsplitter/tracker/internal/handler"
	"github.com/stemsplitter/tracker/internal/metrics"
	"github.com/stemsplitter/tracker/internal/middleware"
	"github.com/stemsplitter/tracker/internal/service"
	"github.com/stemsplitter/tracker/internal/sources"
	"github.com/stemsplitter/tracker/internal/view"
	ws "github.com/stemsplitter/tracker/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis client for rate limiting
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available, rate limiting fails open: %v", err)
	}

	// Initialize validator
	validate := validator.New()
	if err := sources.RegisterValidation(validate); err != nil {
		log.Fatalf("Failed to register validation: %v", err)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Tracking session
	backend := client.NewBackendClient(&cfg.Backend)
	session := service.NewSession(backend, service.SessionConfig{
		PollInterval:    cfg.Poll.Interval,
		HistoryInterval: cfg.History.Interval,
		DefaultModel:    cfg.Backend.DefaultModel,
	}, hub, service.MultiNotifier{service.LogNotifier{}, hub}, hub.BroadcastHistory, m)

	hub.SetSnapshot(func() interface{} {
		return fiber.Map{
			"jobs":    session.Jobs.Cards(),
			"counts":  session.Jobs.Counts(),
			"history": view.NewHistoryEntries(session.History.Snapshot(), time.Now()),
		}
	})
	session.Start(ctx)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	routes := &handler.Routes{
		Jobs:          handler.NewJobsHandler(session, validate),
		History:       handler.NewHistoryHandler(session.History),
		Download:      handler.NewDownloadHandler(backend),
		Hub:           hub,
		Metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Auth:          middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Enabled),
		RateLimiter:   middleware.NewRateLimiter(redisClient),
		SubmitPerHour: cfg.RateLimit.SubmitPerHour,
	}
	routes.Mount(app)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		session.Stop()
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s (backend %s)", addr, cfg.Backend.BaseURL)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
