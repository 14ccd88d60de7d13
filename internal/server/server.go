package server

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"productos/internal/handlers"
	"productos/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgInternalError = "Error interno del servidor."

// Options configures the HTTP application.
type Options struct {
	// AllowedOrigins lists the origins allowed by CORS. Empty disables CORS.
	AllowedOrigins []string
	// AccessLog enables the per-request access log.
	AccessLog bool
}

// New assembles the Fiber application around an explicitly owned store handle.
func New(opts Options, db *gorm.DB, products *handlers.ProductHandler, metrics *middleware.Metrics, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "productos",
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
			Output: log.Writer(),
		}))
	}
	if origins := allowedOrigins(opts.AllowedOrigins); origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: strings.Join([]string{
				fiber.MethodGet, fiber.MethodPost, fiber.MethodPut,
				fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions,
			}, ","),
		}))
	}
	app.Use(metrics.Middleware())

	app.Get("/health", healthCheck(db))
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	products.RegisterRoutes(api)

	return app
}

// ErrorHandler turns every unhandled error into a terminal JSON response.
// Unknown errors are logged and answered with a generic 500.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		log.WithError(err).
			WithField("method", c.Method()).
			WithField("path", c.Path()).
			WithField("request_id", c.Locals("requestid")).
			Error("Request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": msgInternalError,
		})
	}
}

func healthCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status, database, code := "healthy", "up", fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status, database, code = "unhealthy", "down", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"database": database,
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}

// allowedOrigins keeps the well-formed scheme://host origins, comma separated.
func allowedOrigins(origins []string) string {
	var valid []string
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" || u.Path != "" {
			continue
		}
		valid = append(valid, o)
	}
	return strings.Join(valid, ",")
}
