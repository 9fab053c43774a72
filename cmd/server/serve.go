package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"coal-site/internal/auth"
	"coal-site/internal/config"
	"coal-site/internal/database"
	"coal-site/internal/events"
	"coal-site/internal/handlers"
	"coal-site/internal/scheduler"
	"coal-site/internal/seed"
	"coal-site/internal/server"
	"coal-site/internal/site"
	"coal-site/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const loginBurst = 5

type serveOptions struct {
	noSeed bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.noSeed, "no-seed", false, "skip the first-run seed")
	return cmd
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeDB, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	if !opts.noSeed {
		if err := applySeed(ctx, store, cfg.SeedFile, log); err != nil {
			return err
		}
	}

	bus, err := openBus(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer bus.Close()

	state := site.NewState(store, log.Named("state"), site.WithInvalidator(bus))
	state.Refresh(ctx, false)

	gate, err := auth.NewGate(cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		return err
	}

	uploader, err := openUploader(cfg, log)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(cfg.RefreshSchedule, state, log.Named("scheduler"))
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	h := handlers.New(handlers.Deps{
		State:      state,
		Audit:      store,
		Gate:       gate,
		Limiter:    auth.NewLimiter(cfg.LoginRatePerMin, loginBurst),
		Uploader:   uploader,
		Log:        log.Named("http"),
		SessionTTL: cfg.SessionTTL,
		ResetDelay: cfg.ContactResetDelay,
	})
	router, err := server.NewRouter(cfg, h, handlers.NewHealthHandler("coal-site", Version, store), log.Named("access"))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := bus.Subscribe(gctx, func(inv events.Invalidation) {
			state.RefreshCollections(gctx, inv.Collections...)
		})
		if err != nil {
			log.Error("invalidation listener stopped", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		return server.Run(gctx, ":"+cfg.ServerPort, router, log)
	})
	return g.Wait()
}

// bootstrap loads the config and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range cfg.Warnings {
		log.Warn("config: " + w)
	}
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*database.Store, func(), error) {
	db, err := database.Connect(ctx, cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := database.Migrate(db); err != nil {
		closeDB()
		return nil, nil, err
	}
	return database.NewStore(db, cfg.StoreTimeout), closeDB, nil
}

func applySeed(ctx context.Context, store *database.Store, path string, log *zap.Logger, opts ...seed.ApplyOption) error {
	s, err := seed.Load(path)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, store, s, log, opts...)
}

func openBus(ctx context.Context, cfg *config.Config, log *zap.Logger) (events.Bus, error) {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, invalidations stay local")
		return events.LocalBus{}, nil
	}
	return events.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, log.Named("events"))
}

func openUploader(cfg *config.Config, log *zap.Logger) (storage.Uploader, error) {
	if cfg.CloudinaryURL != "" {
		log.Info("image uploads go to cloudinary", zap.String("folder", storage.Folder))
		return storage.NewCloudinary(cfg.CloudinaryURL)
	}
	log.Info("image uploads stored on disk", zap.String("dir", cfg.UploadDir))
	return storage.NewLocal(cfg.UploadDir, "/uploads")
}
