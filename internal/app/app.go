// Package app wires configuration, storage and the HTTP router together and
// owns the server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"library-backend/internal/analytics"
	"library-backend/internal/catalog"
	"library-backend/internal/circulation"
	"library-backend/internal/platform/config"
	"library-backend/internal/platform/db"
	"library-backend/internal/platform/session"
	"library-backend/internal/reservations"
	"library-backend/internal/stubs"
)

// Repositories is the storage behind every endpoint.
type Repositories struct {
	Catalog      catalog.Repository
	Reservations reservations.Repository
	Circulation  circulation.Repository
	Analytics    analytics.Repository
	// Ping checks the backing store for /healthz. nil means always healthy.
	Ping func(ctx context.Context) error
}

// MySQLRepositories builds every repository on one shared pool.
func MySQLRepositories(conn *sqlx.DB) Repositories {
	return Repositories{
		Catalog:      catalog.NewStore(conn),
		Reservations: reservations.NewStore(conn),
		Circulation:  circulation.NewStore(conn),
		Analytics:    analytics.NewStore(conn),
		Ping:         conn.PingContext,
	}
}

// MemoryRepositories builds every repository on one in-memory database.
func MemoryRepositories(m *stubs.MemoryDB) Repositories {
	return Repositories{
		Catalog:      m,
		Reservations: m,
		Circulation:  m,
		Analytics:    m,
	}
}

type App struct {
	cfg    *config.Config
	logger *zap.Logger
	conn   *sqlx.DB // nil for the memory driver
	server *http.Server
}

// New opens the configured store and builds the server. The caller must call
// Shutdown (Run does it on return).
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	var repos Repositories
	switch cfg.DB.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory database; data is lost on exit")
		repos = MemoryRepositories(stubs.NewSeededMemoryDB(time.Now().UTC()))
	default:
		conn, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database",
			zap.String("host", cfg.DB.Host),
			zap.Int("port", cfg.DB.Port),
			zap.String("dbname", cfg.DB.DBName),
		)
		a.conn = conn
		repos = MySQLRepositories(conn)
	}

	issuer, err := newIssuer(cfg, logger)
	if err != nil {
		a.closeDB()
		return nil, err
	}

	a.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(cfg, logger, repos, issuer),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

func newIssuer(cfg *config.Config, logger *zap.Logger) (*session.Issuer, error) {
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		// Dev only (Validate rejects this in release). Tokens do not survive a restart.
		s, err := session.RandomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		logger.Warn("session.secret not set; using a random secret")
		secret = s
	}
	return session.NewIssuer(secret, cfg.Session.TTL), nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler { return a.server.Handler }

// Run serves until ctx is cancelled or the listener fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if a.cfg.TLS() {
			a.logger.Info("listening", zap.String("addr", a.cfg.Server.Addr), zap.Bool("tls", true))
			err = a.server.ListenAndServeTLS(a.cfg.Server.CertFile, a.cfg.Server.KeyFile)
		} else {
			a.logger.Info("listening", zap.String("addr", a.cfg.Server.Addr), zap.Bool("tls", false))
			err = a.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case serveErr = <-errCh:
		if serveErr != nil {
			a.logger.Error("server stopped", zap.Error(serveErr))
		}
	}

	if err := a.Shutdown(); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}

// Shutdown drains in-flight requests, then closes the pool.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeDB() error {
	if a.conn == nil {
		return nil
	}
	conn := a.conn
	a.conn = nil
	if err := conn.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
