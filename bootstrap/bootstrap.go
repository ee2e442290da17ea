package bootstrap

import (
	"homescout-backend/internal/config"
	"homescout-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless deployments (the api handler imports
// this package, not internal). The process lives as long as the instance, so
// the app is never closed.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	a, err := router.CreateApp(cfg)
	if err != nil {
		return nil, err
	}
	return a.Fiber, nil
}
