package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"medmarket/internal/adapters/out/postgres"
	redisadapter "medmarket/internal/adapters/out/redis"
	"medmarket/internal/core/ports"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewRootCommand builds the medmarket CLI: serve, migrate and sweep.
func NewRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "medmarket",
		Short:         "Healthcare marketplace order workflow service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file read before the environment")

	root.AddCommand(
		serveCommand(&envFile),
		migrateCommand(&envFile),
		sweepCommand(&envFile),
	)
	return root
}

func serveCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			return withApp(*envFile, func(rt app) error {
				return serve(c.Context(), rt)
			})
		},
	}
}

func migrateCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(*envFile, func(rt app) error {
				if err := postgres.Migrate(rt.db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				rt.logger.Info("Schema is up to date")
				return nil
			})
		},
	}
}

func sweepCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Cancel abandoned orders once and exit",
		RunE: func(c *cobra.Command, _ []string) error {
			return withApp(*envFile, func(rt app) error {
				result, err := rt.root.CreateAbandonedOrderSweepJob().RunOnce(c.Context())
				if err != nil {
					return err
				}
				rt.logger.Info("Abandoned orders swept",
					"lab_orders_cancelled", result.LabOrdersCancelled,
					"pharmacy_orders_cancelled", result.PharmacyOrdersCancelled,
					"skipped", result.Skipped,
					"failed", result.Failed,
				)
				return nil
			})
		},
	}
}

type app struct {
	cfg    Config
	logger *slog.Logger
	db     *gorm.DB
	root   CompositionRoot
}

// withApp loads config, opens the database and the optional Redis publisher,
// runs fn and releases everything afterwards.
func withApp(envFile string, fn func(rt app) error) error {
	cfg, err := LoadConfig(envFile)
	if err != nil {
		return err
	}
	logger, logCloser := NewLogger(cfg)
	defer logCloser.Close()

	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var publisher ports.EventPublisher
	if cfg.RedisAddr != "" {
		client, err := redisadapter.NewClient(context.Background(), redisadapter.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = redisadapter.NewStatusPublisher(client, cfg.RedisChannel)
	} else {
		logger.Warn("REDIS_ADDR is empty, status changes will not be published")
	}

	return fn(app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		root:   NewCompositionRoot(cfg, db, publisher, logger),
	})
}

func serve(ctx context.Context, rt app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobManager := rt.root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	e := rt.root.CreateHTTPServer().NewEcho()
	serveErr := make(chan error, 1)
	go func() {
		rt.logger.Info("HTTP server listening", "port", rt.cfg.HTTPPort)
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", rt.cfg.HTTPPort))
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	rt.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownGracePeriod)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
