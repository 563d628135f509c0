package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/config"
	"github.com/diewo77/go-portale/internal/db"
	"github.com/diewo77/go-portale/internal/models"
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

	logger, err := zap.NewProduction()
	if cfg.App.Dev {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.App.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.App.SentryDSN,
			Environment: environment(cfg.App.Dev),
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	conn, err := db.Connect(cfg.Database.DSN())
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		logger.Info("migrations completed")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(conn); err != nil {
			logger.Fatal("seeding failed", zap.Error(err))
		}
		logger.Info("seeding completed")
		return
	}

	if cfg.App.Migrations {
		if err := db.Migrate(conn); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		logger.Info("migrations completed")
	}
	if err := db.Seed(conn); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	if err := db.SeedAdmin(conn, cfg.App.AdminEmail); err != nil {
		logger.Fatal("admin bootstrap failed", zap.Error(err))
	}

	// Sessions are only honored for accounts that still exist.
	auth.SetUserVerifier(func(ctx context.Context, uid uuid.UUID) bool {
		var count int64
		conn.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	appHandler := NewApp(conn)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withRecover(withLogging(logger, appHandler)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}

func environment(dev bool) string {
	if dev {
		return "development"
	}
	return "production"
}

// withLogging adds request logging middleware.
func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withRecover reports panics to sentry (when configured) and returns a 500
// instead of killing the connection handler.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				sentry.CurrentHub().Recover(rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
