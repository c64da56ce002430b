// Package server assembles the budgetkeeper server: credential store,
// session and access services, the public HTTP surface and the internal
// gRPC access API. It handles graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/stealth"
	"github.com/dmitrijs2005/budgetkeeper/internal/telemetry"

	gs "github.com/dmitrijs2005/budgetkeeper/internal/server/grpc"
)

const serviceName = "budgetkeeper"

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	httpServer        *httpapi.Server
	grpcServer        *gs.GRPCServer
	shutdownTelemetry func(context.Context) error
}

// OpenDatabase opens the configured store and applies pending migrations.
func OpenDatabase(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	m, err := repomanager.New(c.StoreDriver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(m.SQLDriver(), c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, m, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	shutdownTelemetry, err := telemetry.Setup(ctx, serviceName, c.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	db, m, err := OpenDatabase(ctx, c)
	if err != nil {
		return nil, err
	}

	source := ledger.NewMemorySource()
	if c.LedgerSeedPath != "" {
		if err := loadLedgerSeed(source, c.LedgerSeedPath); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	store := services.NewSQLStore(db, m, c.StoreTimeout, logger)
	hasher := cryptox.NewHasher(c.Argon2)
	access := services.NewAccessService(store, []byte(c.SecretKey))

	hs := httpapi.NewServer(c, logger, httpapi.Deps{
		Sessions: services.NewSessionService(store, store, hasher, c),
		Access:   access,
		Accounts: services.NewAccountService(store, store, hasher, source, logger),
		Ledger:   ledger.NewService(source, c.Currency),
		Gate:     stealth.NewGate(c.TriggerPhrase, []byte(c.SecretKey), c.GateTicketValidityDuration),
	})

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		httpServer:        hs,
		grpcServer:        gs.NewGRPCServer(c.EndpointAddrGRPC, logger, access),
		shutdownTelemetry: shutdownTelemetry,
	}, nil
}

func loadLedgerSeed(source *ledger.MemorySource, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ledger seed: %w", err)
	}
	defer f.Close()

	if err := source.Load(f); err != nil {
		return fmt.Errorf("ledger seed: %w", err)
	}
	return nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.shutdownTelemetry(context.Background()); err != nil {
		app.logger.Warn(ctx, "telemetry shutdown failed", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
