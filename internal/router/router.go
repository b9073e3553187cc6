package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kumar-pranav/dojotrack-api/internal/config"
	"github.com/kumar-pranav/dojotrack-api/internal/handler"
	"github.com/kumar-pranav/dojotrack-api/internal/middleware"
	"github.com/kumar-pranav/dojotrack-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	SessionHandler  *handler.SessionHandler
	RosterHandler   *handler.RosterHandler
	HistoryHandler  *handler.HistoryHandler
	SettingsHandler *handler.SettingsHandler
	PhotoHandler    *handler.PhotoHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := app.Group("/api/v1/auth", middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.SessionHandler != nil {
		session := app.Group("/api/v1/session", jwtMiddleware)
		deps.SessionHandler.Register(session)
	}

	if deps.RosterHandler != nil {
		students := app.Group("/api/v1/students", jwtMiddleware)
		deps.RosterHandler.Register(students)
	}

	if deps.HistoryHandler != nil {
		history := app.Group("/api/v1/history", jwtMiddleware)
		deps.HistoryHandler.Register(history)
	}

	if deps.SettingsHandler != nil {
		settings := app.Group("/api/v1/settings", jwtMiddleware)
		deps.SettingsHandler.Register(settings)
	}

	if deps.PhotoHandler != nil {
		photo := app.Group("/api/v1/profile/photo", jwtMiddleware)
		deps.PhotoHandler.Register(photo)
	}
}
