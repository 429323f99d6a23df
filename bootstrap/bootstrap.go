package bootstrap

import (
	"github.com/AndyRamoss/Invitacion-Andy/internal/config"
	"github.com/AndyRamoss/Invitacion-Andy/internal/interfaces/router"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless entry points (the api handler imports this package, not internal).
// Connections stay open for the life of the instance.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())
	app, _, err := router.CreateApp(cfg)
	return app, err
}
