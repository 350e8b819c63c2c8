// Package server exposes the aggregator over HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/codeGROOVE-dev/solvestats/internal/config"
	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
)

const shutdownTimeout = 10 * time.Second

// Fetcher aggregates platform results for a request.
type Fetcher interface {
	Aggregate(ctx context.Context, req stats.Request) stats.Summary
}

// Server wires the aggregator into a Fiber app.
type Server struct {
	app     *fiber.App
	fetcher Fetcher
	logger  *slog.Logger
}

// New creates a Server around the given fetcher.
func New(cfg *config.Config, fetcher Fetcher, log *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName: "solvestats",
	})

	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	s := &Server{
		app:     app,
		fetcher: fetcher,
		logger:  log,
	}

	app.Post("/api/get_stats", s.handleGetStats)
	app.Get("/healthz", s.handleHealthz)

	return s
}

// App returns the underlying Fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until the context is canceled, then shuts down
// gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", "timeout", shutdownTimeout)
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// handleGetStats fetches solved counts for every platform URL in the request
// body. The response always carries all four platform keys; per-platform
// failures are embedded in their results rather than failing the request.
func (s *Server) handleGetStats(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}

	var req stats.Request
	if err := c.BodyParser(&req); err != nil {
		s.logger.Warn("rejecting malformed request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}

	summary := s.fetcher.Aggregate(c.UserContext(), req)
	return c.JSON(summary)
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
