package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/async-worker/api/v1"
	"github.com/kubev2v/async-worker/internal/config"
	"github.com/kubev2v/async-worker/internal/fs"
	"github.com/kubev2v/async-worker/internal/handlers"
	"github.com/kubev2v/async-worker/internal/server"
	"github.com/kubev2v/async-worker/internal/services"
	"github.com/kubev2v/async-worker/internal/store"
	"github.com/kubev2v/async-worker/internal/store/migrations"
	"github.com/kubev2v/async-worker/pkg/asyncworker"
)

const dbFilename = "async-worker.duckdb"

func newRunCommand() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the filesystem engine over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			zap.S().Infow("configuration loaded", "config", cfg.DebugMap())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev or prod")
	f.IntVar(&cfg.Server.HTTPPort, "http-port", cfg.Server.HTTPPort, "HTTP listen port")
	f.StringVar(&cfg.Server.TLSCertFile, "tls-cert-file", cfg.Server.TLSCertFile, "TLS certificate, enables HTTPS")
	f.StringVar(&cfg.Server.TLSKeyFile, "tls-key-file", cfg.Server.TLSKeyFile, "TLS private key")
	f.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", cfg.Server.ShutdownTimeout, "grace period for in-flight requests")

	f.IntVar(&cfg.Engine.JobCount, "job-count", cfg.Engine.JobCount, "number of filesystem jobs")
	f.IntVar(&cfg.Engine.WaitingListSize, "waiting-list-size", cfg.Engine.WaitingListSize, "number of callers that may wait for a job")
	f.IntVar(&cfg.Engine.MaxHandles, "max-handles", cfg.Engine.MaxHandles, "open file and directory handles")
	f.DurationVar(&cfg.Engine.RetryMaxElapsed, "retry-max-elapsed", cfg.Engine.RetryMaxElapsed, "how long a refused caller retries")

	f.StringVar(&cfg.Filesystem.Root, "fs-root", cfg.Filesystem.Root, "directory to serve, remembered for next runs")
	f.BoolVar(&cfg.Filesystem.InMemory, "fs-in-memory", cfg.Filesystem.InMemory, "serve an in-memory filesystem")

	f.StringVar(&cfg.Journal.DataFolder, "data-folder", cfg.Journal.DataFolder, "folder of the journal database, in memory when empty")
	f.IntVar(&cfg.Journal.QueueSize, "journal-queue-size", cfg.Journal.QueueSize, "records pending before new ones are dropped")
	f.DurationVar(&cfg.Journal.Retention, "journal-retention", cfg.Journal.Retention, "age of the operations kept")
	f.DurationVar(&cfg.Journal.PruneInterval, "journal-prune-interval", cfg.Journal.PruneInterval, "how often old operations are deleted")

	f.BoolVar(&cfg.Authentication.Enabled, "auth-enabled", cfg.Authentication.Enabled, "require a bearer JWT")
	f.StringVar(&cfg.Authentication.SecretFilePath, "auth-secret-file", cfg.Authentication.SecretFilePath, "file holding the HMAC secret")

	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	return cmd
}

func run(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("run")

	dbPath := ":memory:"
	if cfg.Journal.DataFolder != "" {
		if err := os.MkdirAll(cfg.Journal.DataFolder, 0o750); err != nil {
			return fmt.Errorf("failed to create data folder: %w", err)
		}
		dbPath = filepath.Join(cfg.Journal.DataFolder, dbFilename)
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	st := store.NewStore(db)

	journal, err := services.NewJournal(st, cfg.JournalConfig())
	if err != nil {
		return err
	}
	defer journal.Close()

	fsys, err := mountFilesystem(ctx, st, cfg.Filesystem)
	if err != nil {
		return err
	}

	fsSrv, err := fs.NewService(fsys, cfg.EngineConfig(),
		fs.WithObserver(journal.ObserveFs),
		fs.WithMaxHandles(cfg.Engine.MaxHandles),
		fs.WithCallOptions(asyncworker.WithMaxElapsedTime(cfg.Engine.RetryMaxElapsed)),
	)
	if err != nil {
		return err
	}
	// closed before the journal so the last operations are still recorded
	defer fsSrv.Close()

	registry := services.NewEngineRegistry(fsSrv.Engine(), journal.Engine())
	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(
		registry.Collector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	operations := services.NewOperationService(st)
	go operations.RunRetention(ctx, cfg.Journal.PruneInterval, cfg.Journal.Retention)

	handler := handlers.New(registry, operations, fsSrv)
	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, handler)
	}, server.WithGatherer(gatherer))
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown requested")
	if err := srv.Stop(context.Background()); err != nil {
		log.Warnw("server shutdown", "error", err)
	}
	if dropped := journal.Dropped(); dropped > 0 {
		log.Warnw("journal records dropped during the run", "count", dropped)
	}
	return nil
}

func mountFilesystem(ctx context.Context, st *store.Store, cfg config.Filesystem) (billy.Filesystem, error) {
	if cfg.InMemory {
		zap.S().Named("run").Info("serving an in-memory filesystem")
		return memfs.New(), nil
	}

	root, err := services.ResolveRoot(ctx, st, cfg.Root)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return osfs.New(abs, osfs.WithBoundOS()), nil
}
