// Package stub is an in-process task service speaking the same REST
// contract the client expects. It backs local development without a real
// deployment and doubles as an integration test fixture.
package stub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
)

// Server is the stub task service
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	repo   *Repo
}

// CustomValidator wraps the validator for echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a stub server with a seeded repository
func New(cfg *config.Config, appLogger *logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	repo := NewRepo()
	repo.Seed()

	s := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger.WithComponent("stub"),
		repo:   repo,
	}

	handler := NewHandler(repo, appLogger)
	auth := newAuthBackend(cfg.Auth, appLogger)

	s.setupMiddleware()
	s.setupRoutes(handler, auth)
	if cfg.Stub.MetricsEnabled {
		s.setupMetrics()
	}

	return s
}

// Repo exposes the backing repository, for test seeding
func (s *Server) Repo() *Repo {
	return s.repo
}

// Echo exposes the underlying echo instance, for httptest servers
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
			}
			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("request failed", fields...)
			} else {
				s.logger.Infow("request", fields...)
			}
			return nil
		},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.config.Stub.RateLimitRequests),
				Burst:     s.config.Stub.RateLimitRequests,
				ExpiresIn: s.config.Stub.RateLimitWindow,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return fail(c, http.StatusTooManyRequests, "rate limit exceeded")
		},
	}))

	s.echo.Use(middleware.RequestID())
}

func (s *Server) setupRoutes(handler *Handler, auth *authBackend) {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/logout", auth.Logout, auth.requireAuth)
	authGroup.POST("/refresh", auth.Refresh, auth.requireAuth)
	authGroup.GET("/me", auth.Me, auth.requireAuth)

	tasks := api.Group("/tasks", auth.requireAuth)
	tasks.GET("", handler.ListTasks)
	tasks.POST("", handler.CreateTask)
	tasks.GET("/stats", handler.Stats)
	tasks.GET("/daily-summary", handler.DailySummary)
	tasks.GET("/due-today", handler.DueToday)
	tasks.GET("/due-this-week", handler.DueThisWeek)
	tasks.GET("/due-next-week", handler.DueNextWeek)
	tasks.GET("/due-this-month", handler.DueThisMonth)
	tasks.GET("/overdue", handler.OverdueTasks)
	tasks.GET("/date-range", handler.DateRange)
	tasks.POST("/bulk/complete", handler.BulkComplete)
	tasks.POST("/bulk/delete", handler.BulkDelete)
	tasks.DELETE("/bulk/completed", handler.DeleteAllCompleted)
	tasks.GET("/:id", handler.GetTask)
	tasks.PUT("/:id", handler.UpdateTask)
	tasks.PATCH("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
	tasks.PATCH("/:id/complete", handler.CompleteTask)
	tasks.PATCH("/:id/incomplete", handler.IncompleteTask)
	tasks.PATCH("/:id/priority", handler.UpdatePriority)
	tasks.PATCH("/:id/due-date", handler.UpdateDueDate)
	tasks.POST("/:id/duplicate", handler.DuplicateTask)
}

func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stub_requests_total",
			Help: "Total number of requests served by the stub",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stub_request_duration_seconds",
			Help:    "Stub request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(echo.MiddlewareFunc(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timer := prometheus.NewTimer(requestDuration.WithLabelValues(c.Request().Method, c.Path()))
			err := next(c)
			timer.ObserveDuration()
			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", c.Response().Status),
			).Inc()
			return err
		}
	}))

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	address := fmt.Sprintf(":%d", s.config.Stub.Port)
	s.logger.Infow("stub task service listening", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
