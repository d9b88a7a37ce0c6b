// Package api exposes the game over HTTP. All gameplay endpoints are
// JSON; errors carry a machine-readable message and map game errors
// onto 4xx statuses.
package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"supplycraft/internal/game"
	"supplycraft/internal/negotiation"
	"supplycraft/internal/session"
	"supplycraft/internal/sim"
)

type Server struct {
	svc *game.Service
	log *slog.Logger
	app *fiber.App
}

func New(svc *game.Service, log *slog.Logger) *Server {
	s := &Server{svc: svc, log: log}

	s.app = fiber.New(fiber.Config{
		AppName:      "supplycraft",
		ErrorHandler: s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	s.app.Use(s.requestLogger)

	s.routes()
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/config", s.handleConfig)

	g := s.app.Group("/game")
	g.Post("/start", s.handleStart)
	g.Post("/state", s.handleState)
	g.Post("/order", s.handleOrder)
	g.Post("/negotiate", s.handleNegotiate)
	g.Post("/negotiate/chat", s.handleChat)
	g.Post("/negotiate/draft", s.handleDraft)
	g.Post("/end-early", s.handleEndEarly)
	g.Get("/summary", s.handleSummary)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// errorHandler maps game errors onto HTTP statuses. Validation
// failures and rule violations are client errors; only genuinely
// unexpected failures surface as 500s.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}

	status := fiber.StatusInternalServerError
	var ve *negotiation.ValidationError

	switch {
	case errors.Is(err, session.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.As(err, &ve),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrGameNotOver),
		errors.Is(err, game.ErrContractActive),
		errors.Is(err, game.ErrNoActiveContract),
		errors.Is(err, game.ErrNoDraft),
		errors.Is(err, game.ErrInvalidRounds),
		errors.Is(err, sim.ErrNegativeQuantity):
		status = fiber.StatusBadRequest
	default:
		s.log.Error("request failed", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"detail": err.Error()})
}
