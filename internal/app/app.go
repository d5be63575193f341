// Package app wires the application together: storage, auth, sessions,
// tickets, and the HTTP server, plus graceful shutdown on OS signals.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kendallhq/managerpro/internal/auth"
	"github.com/kendallhq/managerpro/internal/config"
	"github.com/kendallhq/managerpro/internal/guard"
	"github.com/kendallhq/managerpro/internal/logging"
	"github.com/kendallhq/managerpro/internal/session"
	"github.com/kendallhq/managerpro/internal/storage"
	"github.com/kendallhq/managerpro/internal/storage/kv"
	"github.com/kendallhq/managerpro/internal/tickets"
	"github.com/kendallhq/managerpro/internal/web"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	watcher *tickets.Watcher
	server  *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store := kv.NewSQLiteStore(db)
	sessions := session.NewManager(store, cfg.KeyPrefix)
	authSvc := auth.NewService(store, sessions, cfg.KeyPrefix, cfg.SessionDuration)
	manager := tickets.NewManager(tickets.NewStore(store, cfg.KeyPrefix), logger)
	g := guard.New(sessions, logger)

	watcher := tickets.NewWatcher(manager, logger, cfg.PollInterval)
	if err := watcher.WatchFile(ctx, cfg.DatabasePath); err != nil {
		logger.Warn(ctx, "file watch unavailable, polling only", "error", err)
	}

	handlers := web.NewHandlers(authSvc, g, manager, logger)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handlers.Router(),
	}

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		watcher: watcher,
		server:  server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.ListenAddr, "db", app.config.DatabasePath)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.watcher.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "server shutdown error", "error", err)
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "app stopped")
}
