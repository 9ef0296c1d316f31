package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/metrics"
)

// bodyLimit fits a 25 MiB image sent inline as base64.
const bodyLimit = 40 * 1024 * 1024

type Dependencies struct {
	Dispatcher    handler.Dispatcher
	WebhookToken  string
	WebhookSecret string
	// Ready reports whether the process accepts traffic. It turns false once
	// shutdown starts so load balancers drain before the listener closes.
	Ready func() bool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "SceneFinder API",
		BodyLimit:    bodyLimit,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var ready func() bool
	if r.deps != nil {
		ready = r.deps.Ready
	}

	// Health check endpoints (no auth required)
	healthHandler := handler.NewHealthHandler(ready)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)
	r.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Only configure the webhook if dependencies were provided
	if r.deps == nil || r.deps.Dispatcher == nil {
		return
	}

	v1 := r.app.Group("/v1")
	v1.Use(middleware.WebhookAuth(r.deps.WebhookToken))
	v1.Use(middleware.WebhookSignature(r.deps.WebhookSecret))

	messageHandler := handler.NewMessageHandler(r.deps.Dispatcher, r.logger)
	v1.Post("/messages", messageHandler.Handle)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
