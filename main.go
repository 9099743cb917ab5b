package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-dine/auth"
	"github.com/danielhkuo/quickly-dine/candidates"
	"github.com/danielhkuo/quickly-dine/cliparse"
	"github.com/danielhkuo/quickly-dine/db"
	"github.com/danielhkuo/quickly-dine/live"
	"github.com/danielhkuo/quickly-dine/lobby"
	"github.com/danielhkuo/quickly-dine/router"
	"github.com/danielhkuo/quickly-dine/store"
	"github.com/danielhkuo/quickly-dine/telemetry"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	sessions store.Sessions
	users    store.Users
	catalog  store.Catalog
	conn     *sql.DB
}

func main() {
	os.Exit(start(os.Args[1:], telemetry.NewLogger))
}

// start runs the server and returns the process exit code. The logger is
// flushed before it returns.
func start(args []string, newLogger func(level, format string) (*zap.Logger, error)) int {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		os.Stderr.WriteString("Error parsing flags: " + err.Error() + "\n")
		return 2
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		os.Stderr.WriteString("Error building logger: " + err.Error() + "\n")
		return 2
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg cliparse.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "quickly-dine", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if st.conn != nil {
		defer st.conn.Close()
	}

	if cfg.SeedCatalog {
		if err := seedCatalog(ctx, st.catalog, logger); err != nil {
			return err
		}
	}

	metrics := telemetry.NewMetrics()
	hub := live.NewHub(ctx, logger, metrics.LiveSubscribers)
	defer hub.Close()

	issuer, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenIssuer, cfg.TokenTTL)
	if err != nil {
		return err
	}

	svc := lobby.NewService(lobby.Config{
		Sessions:  st.sessions,
		Users:     st.users,
		Catalog:   st.catalog,
		Selector:  candidates.NewSelector(st.catalog, db.SampleRestaurants(), cfg.CandidatePageSize, cfg.FallbackPageSize, logger),
		Publisher: hub,
		Metrics:   metrics,
		Logger:    logger,
	})

	mux := router.NewRouter(router.Deps{
		Config:  cfg,
		Service: svc,
		Users:   st.users,
		Issuer:  issuer,
		Hasher:  auth.NewHasher(0),
		Hub:     hub,
		Metrics: metrics,
		Logger:  logger,
	})

	// Create server
	server := &http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.Int("port", cfg.Port), zap.String("database", cfg.DatabaseType))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Wait for a signal or a failed listener
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sctx)
	})
	return g.Wait()
}

// openStores returns the configured backend. SQL backends are migrated
// before use.
func openStores(ctx context.Context, cfg cliparse.Config, logger *zap.Logger) (stores, error) {
	if cfg.DatabaseType == db.TypeMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return stores{
			sessions: store.NewMemorySessions(),
			users:    store.NewMemoryUsers(),
			catalog:  store.NewMemoryCatalog(),
		}, nil
	}

	if err := db.Migrate(cfg.DatabaseType, cfg.DatabaseURL); err != nil {
		return stores{}, err
	}
	logger.Info("database schema ready", zap.String("type", cfg.DatabaseType))

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return stores{}, err
	}
	return stores{
		sessions: store.NewSQLSessions(conn),
		users:    store.NewSQLUsers(conn),
		catalog:  store.NewSQLCatalog(conn),
		conn:     conn,
	}, nil
}

func seedCatalog(ctx context.Context, catalog store.Catalog, logger *zap.Logger) error {
	n, err := catalog.CountRestaurants(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	list := db.SampleRestaurants()
	if err := catalog.UpsertRestaurants(ctx, list); err != nil {
		return err
	}
	logger.Info("catalog seeded", zap.Int("restaurants", len(list)))
	return nil
}
