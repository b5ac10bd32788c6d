package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/bookahead/backend/config"
	"github.com/bookahead/backend/database"
	"github.com/bookahead/backend/middlewares"
	"github.com/bookahead/backend/router"
	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
		return serve(cfg, !skipMigrate)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
	serveCmd.Flags().Bool("skip-migrate", false, "do not run AutoMigrate on startup")
}

func serve(cfg config.Config, migrate bool) error {
	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Errorf("Refusing to start in %s: %v", cfg.Env, err)
		return err
	}
	if cfg.Env == "dev" && cfg.JWTSecret == config.DefaultJWTSecret {
		utils.InfoLogger.Warn("Using the built-in development JWT secret")
	}
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.ConfigureJWT(cfg.JWTSecret, cfg.TokenTTL)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to connect to database: %v", err)
		return err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	deps, cleanup, err := buildDeps(cfg, db)
	if err != nil {
		return err
	}
	defer cleanup()

	maintenance := services.NewMaintenance(time.Minute,
		services.PruneTokensTask(),
		services.WarmRestaurantCacheTask(deps.Restaurants),
	)
	maintenance.Start()
	defer maintenance.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildDeps wires services to the optional Redis cache and RabbitMQ
// publisher; either is skipped when not configured.
func buildDeps(cfg config.Config, db *gorm.DB) (router.Deps, func(), error) {
	window, err := services.ParseServiceWindow(cfg.ServiceOpen, cfg.ServiceClose)
	if err != nil {
		return router.Deps{}, nil, err
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var cache services.RestaurantCache
	if rdb := config.NewRedisClient(cfg); rdb != nil {
		cache = services.NewRedisRestaurantCache(rdb, cfg.CacheTTL)
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		utils.InfoLogger.Printf("Restaurant cache enabled at %s", cfg.RedisAddr)
	}

	var publisher services.EventPublisher = services.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher := services.NewAMQPPublisher(cfg.RabbitMQURL)
		publisher = amqpPublisher
		cleanups = append(cleanups, func() { _ = amqpPublisher.Close() })
		utils.InfoLogger.Println("Publishing events to RabbitMQ")
	}

	deps := router.Deps{
		Tables: services.NewTableService(db),
		Reservations: services.NewReservationService(db,
			services.WithServiceWindow(window),
			services.WithStrictDelete(cfg.StrictReservationDelete),
			services.WithPublisher(publisher),
		),
		Queries:     services.NewQueryService(db),
		Restaurants: services.NewRestaurantService(db, cache),
		Accounts:    services.NewAccountService(db, cfg.BcryptCost, publisher),
		CORSOrigin:  cfg.CORSOrigin,
		RateLimiter: middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow),
	}
	return deps, cleanup, nil
}
