// Package server initializes and runs the chat delivery server. It opens
// the PostgreSQL connection, applies schema migrations, wires the presence
// registry, gatekeeper and router together, and serves the websocket
// endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/chatrelay/internal/logging"
	"github.com/dmitrijs2005/chatrelay/internal/server/auth"
	"github.com/dmitrijs2005/chatrelay/internal/server/config"
	"github.com/dmitrijs2005/chatrelay/internal/server/hub"
	"github.com/dmitrijs2005/chatrelay/internal/server/migrations"
	"github.com/dmitrijs2005/chatrelay/internal/server/presence"
	"github.com/dmitrijs2005/chatrelay/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chatrelay/internal/server/ws"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *ws.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store := messages.NewPostgresRepository(db)
	registry := presence.NewRegistry()
	verifier := auth.NewJWTVerifier([]byte(cfg.SecretKey))

	gatekeeper := hub.NewGatekeeper(verifier, registry, store, logger)
	router := hub.NewRouter(registry, store, logger)

	timing := ws.Timing{
		WriteWait:      cfg.WriteWait,
		PongWait:       cfg.PongWait,
		PingPeriod:     cfg.PingPeriod,
		MaxMessageSize: cfg.MaxMessageSize,
		SendBuffer:     cfg.SendBuffer,
	}
	server := ws.NewServer(cfg.EndpointAddr, gatekeeper, router, verifier, timing, logger)

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

// runMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
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

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "app stopped")
}
