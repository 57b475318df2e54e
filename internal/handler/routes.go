package handler

import (
	"net/http"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/stemsplitter/tracker/internal/middleware"
	"github.com/stemsplitter/tracker/pkg/response"
	ws "github.com/stemsplitter/tracker/internal/websocket"
)

// Routes groups everything the local API serves
type Routes struct {
	Jobs     *JobsHandler
	History  *HistoryHandler
	Download *DownloadHandler
	Hub      *ws.Hub
	Metrics  http.Handler

	Auth          *middleware.AuthMiddleware
	RateLimiter   *middleware.RateLimiter
	SubmitPerHour int
}

// Mount registers the routes on app
func (r *Routes) Mount(app *fiber.App) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}

	// API routes
	api := app.Group("/api", r.Auth.Authenticate())

	submit := r.RateLimiter.SubmitLimit(r.SubmitPerHour)
	api.Get("/models", r.Jobs.Models)
	api.Post("/process", submit, r.Jobs.Process)
	api.Post("/batch", submit, r.Jobs.Batch)

	api.Get("/jobs", r.Jobs.List)
	api.Get("/jobs/:jobId", r.Jobs.Get)

	api.Get("/history", r.History.List)
	api.Post("/history/refresh", r.History.Refresh)
	api.Delete("/history", r.History.Clear)

	api.Get("/download/:jobId/:stem", r.Download.Stem)

	// WebSocket routes
	if r.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})

		app.Get("/ws", r.Auth.AuthenticateQuery(), websocket.New(func(c *websocket.Conn) {
			r.Hub.HandleConnection(c)
		}))
	}
}

// ErrorHandler renders unhandled errors in the response envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return response.FromStatus(c, code, message)
}
