// Package app assembles the fiber application serving the API
package app

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/celestiaorg/verse/internal/api/v1/middleware"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
	"github.com/celestiaorg/verse/pkg/api/v1/routes"
)

// Options configures the application
type Options struct {
	// BodyLimit is the maximum request body size in bytes, fiber's default when zero
	BodyLimit   int
	CORSOrigins []string
	// FilesDir is served under /files when set
	FilesDir  string
	JWTSecret []byte
	Users     middleware.UserResolver
}

// NewApp creates the fiber application with middleware and routes registered
func NewApp(api *handlers.APIHandler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "VERSE API",
		StrictRouting:         true,
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	origins := "*"
	if len(opts.CORSOrigins) > 0 {
		origins = strings.Join(opts.CORSOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app, api, middleware.RequireUser(opts.JWTSecret, opts.Users), routes.Options{
		FilesDir: opts.FilesDir,
	})

	return app
}
