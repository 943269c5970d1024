// Package server initializes and runs the user-management service: it loads
// storage, applies migrations, wires the services and serves the HTTP API
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/auth"
	"github.com/dmitrijs2005/usermanagement/internal/server/config"
	"github.com/dmitrijs2005/usermanagement/internal/server/httpapi"
	"github.com/dmitrijs2005/usermanagement/internal/server/metrics"
	"github.com/dmitrijs2005/usermanagement/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usermanagement/internal/server/services"
)

// startupTimeout bounds the database ping and migrations.
const startupTimeout = 30 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// logOutput is where the service logger writes.
var logOutput io.Writer = os.Stdout

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logOutput, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	tokens, err := auth.NewTokenService(c.SecretKey)
	if err != nil {
		return nil, err
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager(logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m := metrics.New()
	accounts := services.NewAccountService(db, rm, c.TxTimeout, logger)
	authService := services.NewAuthService(accounts, auth.NewHasher(auth.DefaultCost), tokens, logger)
	router := httpapi.NewRouter(httpapi.NewHandler(authService, m, logger), tokens, m, logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewServer(c.HTTPAddr, router, c.ShutdownTimeout, logger),
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database pool.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	var runErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
