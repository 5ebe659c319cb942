// Package server initializes and runs the watchdeck server. It loads both
// persisted stores, starts the HTTP endpoint and the expired-session
// sweeper, and clears all sessions on graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/watchdeck/watchdeck/internal/filex"
	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/server/config"
	"github.com/watchdeck/watchdeck/internal/server/sessions"
	"github.com/watchdeck/watchdeck/internal/server/users"
	"github.com/watchdeck/watchdeck/internal/server/web"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	users    *users.Store
	sessions *sessions.Store
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	if err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("data dir init error: %w", err)
	}

	us := users.New(filepath.Join(c.DataDir, users.DocumentName), logger)
	ss := sessions.New(filepath.Join(c.DataDir, sessions.DocumentName), c.SessionTTL, logger)

	return &App{config: c, logger: logger, users: us, sessions: ss}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := web.NewServer(app.config.EndpointAddrHTTP, app.config.StaticDir, app.logger, app.users, app.sessions)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startSweeper periodically removes expired sessions. It is an ordinary
// caller of the session store; the store itself runs no background work.
func (app *App) startSweeper(ctx context.Context) {
	if app.config.SweepInterval <= 0 {
		return
	}

	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.sessions.SweepExpired(ctx)
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...")

	// Explicit load before anything can touch the stores.
	app.users.Load(ctx)
	app.sessions.Load(ctx)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSweeper(ctx)
	}()

	wg.Wait()

	// Sessions do not survive a shutdown; keep the on-disk document in sync.
	app.sessions.RevokeAll(context.Background())
	app.logger.Info(context.Background(), "all sessions cleared")
}
