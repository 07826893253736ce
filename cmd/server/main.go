package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/config"
	"github.com/teranga-editions/platform/internal/db"
	"github.com/teranga-editions/platform/internal/handlers"
	"github.com/teranga-editions/platform/internal/logging"
	"github.com/teranga-editions/platform/internal/metrics"
	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New("editions-api", cfg.App.Dev)

	dbConn, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}

	if *migrateOnlyFlag {
		if err := runMigrations(cfg); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed")
		return
	}

	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
		logger.Info().Msg("seeding completed")
		return
	}

	// AutoMigrate on startup keeps dev loops short; MIGRATIONS=1 switches to
	// the SQL migration files.
	if cfg.App.Migrations {
		if err := runMigrations(cfg); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	} else if err := db.Migrate(dbConn); err != nil {
		logger.Fatal().Err(err).Msg("automigrate failed")
	}

	if cfg.App.Seed {
		if err := db.Seed(dbConn); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
	}

	// Sessions are only valid for users that still exist.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		dbConn.Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	m := metrics.New(prometheus.DefaultRegisterer)
	routerCfg := handlers.NewRouterConfig(dbConn, m)
	appHandler := NewApp(dbConn, routerCfg, m)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      logging.Middleware(logger)(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Bool("dev", cfg.App.Dev).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server stopped gracefully")
}

// connectDB establishes a connection to the PostgreSQL database using config.
func connectDB(dbCfg config.DatabaseConfig) (*gorm.DB, error) {
	var conn *gorm.DB
	var err error
	// Simple retry to let Postgres come up first in compose setups.
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{})
		if err == nil {
			return conn, nil
		}
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

// runMigrations applies the SQL migration files.
func runMigrations(cfg *config.Config) error {
	return db.MigrateSQL(cfg.Database.URL())
}
