package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/willemschots/openidstore/internal"
	"github.com/willemschots/openidstore/internal/db"
	"github.com/willemschots/openidstore/internal/db/migrate"
	"github.com/willemschots/openidstore/internal/openid"
	openiddb "github.com/willemschots/openidstore/internal/openid/db"
	"github.com/willemschots/openidstore/internal/web"
	"github.com/willemschots/openidstore/migrations"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Stderr))
}

func run(ctx context.Context, w io.Writer) int {
	level := &slog.LevelVar{}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	envFile, err := loadEnvFile()
	if err != nil {
		logger.Error("failed to load env file", "file", envFile, "error", err)
		return 1
	}

	cfg, err := configFromEnv()
	if err != nil {
		logger.Error("failed to get config from environment", "error", err)
		return 1
	}

	level.Set(cfg.logLevel)

	writeDB, readDB, err := openDB(cfg.db)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.db.dialect, "error", err)
		return 1
	}

	defer func() {
		err := errors.Join(writeDB.Close(), readDB.Close())
		if err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if cfg.db.migrate {
		logger.Info("attempting to migrate database", "driver", cfg.db.dialect)

		meta := migrate.Metadata{
			AppVersion: internal.BuildRevision,
			Timestamp:  time.Now(),
		}

		ran, err := migrate.RunFS(ctx, writeDB, cfg.db.dialect, migrations.FS, meta)
		if err != nil {
			logger.Error("failed to migrate database", "error", err)
			return 1
		}

		for _, m := range ran {
			logger.Info("migration ran", "sequence", m.Sequence, "filename", m.Filename)
		}
	}

	store := openiddb.New(cfg.db.dialect, writeDB, readDB)

	srv := &http.Server{
		Addr:         cfg.http.addr,
		ReadTimeout:  cfg.http.readTimeout,
		WriteTimeout: cfg.http.writeTimeout,
		IdleTimeout:  cfg.http.idleTimeout,
		Handler: web.NewServer(&web.ServerDeps{
			Logger:   logger,
			Tokens:   openid.NewTokenStore(store, logger),
			Profiles: openid.NewProfileResolver(store, logger),
		}),
	}

	// We need to run two tasks concurrently:
	// - Listen and serving of the HTTP server.
	// - Waiting for a signal to stop the server.

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			"addr", cfg.http.addr,
			"buildRevision", internal.BuildRevision,
			"buildRevisionTime", internal.BuildRevisionTime,
			"buildLocalModified", internal.BuildLocalModified,
		)
		// ListenAndServe always returns a non-nil error,
		// g will cancel gCtx when an error is returned, so
		// this will also stop the other goroutine.
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("stopping http server")

		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.http.shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutCtx)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server stopped with error", "error", err)
		return 1
	}

	logger.Info("http server stopped successfully")

	return 0
}

// openDB opens the write and read pools. Postgres uses one pool for both.
func openDB(cfg dbConfig) (writeDB, readDB *sql.DB, err error) {
	if cfg.dialect == db.DialectPostgres {
		pg, err := db.OpenPostgres(cfg.dsn)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg, nil
	}

	writeDB, err = db.OpenSQLite(cfg.file, true)
	if err != nil {
		return nil, nil, err
	}

	readDB, err = db.OpenSQLite(cfg.file, false)
	if err != nil {
		return nil, nil, errors.Join(err, writeDB.Close())
	}

	return writeDB, readDB, nil
}
