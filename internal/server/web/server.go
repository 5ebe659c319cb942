// Package web is the HTTP adapter over the credential and session stores.
// It shapes JSON envelopes, applies CORS, and serves the built frontend;
// all authentication decisions happen in the stores.
package web

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/server/sessions"
	"github.com/watchdeck/watchdeck/internal/server/users"
)

// Server hosts the /api auth endpoints and the SPA assets.
type Server struct {
	address   string
	staticDir string
	users     *users.Store
	sessions  *sessions.Store
	logger    logging.Logger
	app       *fiber.App
}

func NewServer(address, staticDir string, l logging.Logger, us *users.Store, ss *sessions.Store) *Server {
	s := &Server{
		address:   address,
		staticDir: staticDir,
		users:     us,
		sessions:  ss,
		logger:    l.With("module", "web_server"),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST",
	}))

	api := app.Group("/api")
	api.Get("/needs-setup", s.handleNeedsSetup)
	api.Post("/setup-admin", s.handleSetupAdmin)
	api.Post("/login", s.handleLogin)
	api.Post("/logout", s.handleLogout)
	api.Post("/validate-session", s.handleValidateSession)

	if staticDir != "" {
		app.Static("/", staticDir)
		// SPA fallback: unknown non-API paths get index.html so client-side
		// routing works on reload.
		app.Use(func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(filepath.Join(staticDir, "index.html"))
		})
	}

	s.app = app
	return s
}

// Run serves until ctx is cancelled, then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")
		_ = s.app.Shutdown()
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)
	return s.app.Listen(s.address)
}
