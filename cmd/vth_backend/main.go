package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/core/services"
	"github.com/valutatrade/valutatrade_hub/internal/handlers"
	"github.com/valutatrade/valutatrade_hub/internal/middleware"
	"github.com/valutatrade/valutatrade_hub/internal/ratesource"
	"github.com/valutatrade/valutatrade_hub/internal/repositories/database/pgsql"
	"github.com/valutatrade/valutatrade_hub/pkg/config"
	"github.com/valutatrade/valutatrade_hub/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories.
	userRepo := pgsql.NewPgxUserRepository(dbPool)
	portfolioRepo := pgsql.NewPgxPortfolioRepository(dbPool)
	receiptRepo := pgsql.NewPgxReceiptRepository(dbPool)
	rateRepo := pgsql.NewPgxRateRepository(dbPool)

	// External rate providers.
	sources := []portssvc.RateSource{
		ratesource.NewExchangeRateAPIClient(cfg.ExchangeRateAPIURL, cfg.ExchangeRateAPIKey, cfg.ProviderTimeout),
		ratesource.NewCoinGeckoClient(cfg.CoinGeckoURL, cfg.ProviderTimeout),
	}

	// Services.
	rateCache := services.NewRateCacheService(domain.BaseCurrencyCode, sources, rateRepo, cfg.RatesHistoryLimit, logger)
	rateCache.WarmFromStore(ctx)

	userLocks := services.NewUserLockRegistry()
	portfolioSvc := services.NewPortfolioService(portfolioRepo, rateCache, userLocks, cfg.SeedBalance, logger)
	tradeSvc := services.NewTradeService(portfolioRepo, receiptRepo, rateCache, userLocks, cfg.RejectStaleTrades, cfg.RatesMaxAge, logger)
	userSvc := services.NewUserService(userRepo, portfolioSvc, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer, logger)

	// Background refresh keeps the cache warm; it stops with the server context.
	scheduler := services.NewRefreshScheduler(rateCache, cfg.RefreshInterval, logger)
	scheduler.Start(ctx)

	r, err := buildRouter(cfg, logger, handlers.Services{
		User:      userSvc,
		RateCache: rateCache,
		Portfolio: portfolioSvc,
		Trade:     tradeSvc,
	})
	if err != nil {
		logger.Error("Failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited.")
}

func buildRouter(cfg *config.Config, logger *slog.Logger, svcs handlers.Services) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	// Manual refresh hits external providers, so it gets a much tighter
	// per-IP limit than the rest of the API.
	refreshRate, _ := limiter.NewRateFromFormatted("2-M")
	refreshLimiter := limiter.New(memory.NewStore(), refreshRate)

	handlers.RegisterHandlers(r, cfg, svcs, refreshLimiter)
	return r, nil
}

// runMigrations applies pending schema migrations over a short-lived
// database/sql connection, separate from the pgx pool the app uses.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
