// Package api serves the tracker over a JSON HTTP API. Every /api route
// requires a bearer token; the token subject scopes all reads and writes.
package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/hustle/internal/aggregate"
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/habits"
	"github.com/julianstephens/hustle/internal/insights"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/metrics"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/planner"
	"github.com/julianstephens/hustle/internal/storage"
)

type Deps struct {
	Planner   *planner.Planner
	Habits    *habits.Service
	Engine    *aggregate.Engine
	Insights  *insights.Pipeline
	Clock     calendar.Clock
	JWTSecret []byte
}

type Server struct {
	deps Deps
	app  *fiber.App
	log  *log.Logger
}

func New(deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = calendar.SystemClock{}
	}
	app := fiber.New(fiber.Config{
		AppName:               "hustle",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	s := &Server{deps: deps, app: app, log: logger.With("component", "api")}
	s.setupRoutes()
	return s
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	s.log.Info("API listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(requestMetrics())

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "thinking": s.deps.Insights != nil && s.deps.Insights.Thinking()})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	protected := s.app.Group("/api", AuthMiddleware(s.deps.JWTSecret))

	stats := protected.Group("/stats")
	stats.Get("/week", s.weekStats)
	stats.Get("/month", s.monthStats)
	stats.Get("/custom", s.customStats)

	protected.Post("/insights", s.generateInsights)
	protected.Get("/day/:date", s.day)

	protected.Post("/tasks", s.createTask)
	protected.Put("/tasks/:id/completion", s.setTaskCompletion)
	protected.Post("/hourly-tasks", s.createHourlyTask)
	protected.Put("/hourly-tasks/:id/completion", s.setHourlyTaskCompletion)

	habitRoutes := protected.Group("/habits")
	habitRoutes.Get("/", s.listHabits)
	habitRoutes.Post("/", s.createHabit)
	habitRoutes.Delete("/:id", s.deleteHabit)
	habitRoutes.Post("/:id/toggle", s.toggleHabit)

	reflections := protected.Group("/reflections")
	reflections.Put("/:date/journal", s.saveJournal)
	reflections.Put("/:date/hourly", s.saveHourly)
}

func requestMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		metrics.RecordHTTPRequest(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(started))
		return err
	}
}

// errorHandler maps domain errors onto HTTP status codes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code, msg = fe.Code, fe.Message
	case errors.Is(err, storage.ErrNotFound):
		code, msg = fiber.StatusNotFound, err.Error()
	case models.IsValidation(err), errors.Is(err, habits.ErrNotActive):
		code, msg = fiber.StatusBadRequest, err.Error()
	default:
		logger.Error("API request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func (s *Server) today() calendar.Date {
	return calendar.Today(s.deps.Clock)
}

// dateValue parses a YYYY-MM-DD route or query value, falling back to today when blank.
func (s *Server) dateValue(raw string) (calendar.Date, error) {
	if raw == "" {
		return s.today(), nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}
