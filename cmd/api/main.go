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

	"github.com/redis/go-redis/v9"

	"jobboard/internal/app"
	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/jobposting"
	"jobboard/internal/domain/user"
	apphttp "jobboard/internal/http"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/metrics"
	httpmw "jobboard/internal/http/middleware"
	"jobboard/internal/observability"
	"jobboard/internal/repository/memory"
	"jobboard/internal/repository/postgres"
	"jobboard/internal/security"
	"jobboard/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type repositories struct {
	users        user.Repository
	postings     jobposting.Repository
	applications application.Repository
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	redisClient := connectRedis(ctx, cfg.RedisURL, logger)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("redis close failed", slog.String("error", err.Error()))
			}
		}()
	}

	repos, db, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	resumes := storage.NewLocalStorage(cfg.UploadsDir)

	userService := app.NewUserService(repos.users, logger)
	postingService := app.NewJobPostingService(repos.postings, logger)
	applicationService := app.NewApplicationService(repos.applications, repos.postings, resumes, logger)
	dashboardService := app.NewDashboardService(repos.postings, repos.users, repos.applications)

	if cfg.AdminEmail != "" {
		admin, err := userService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		logger.Info("bootstrap admin ready", slog.String("user_id", admin.ID.String()))
	}

	var limiter httpmw.Limiter
	if redisClient != nil {
		limiter = httpmw.NewRedisLimiter(redisClient, "jobboard", logger)
	} else {
		memoryLimiter := httpmw.NewRateLimiter()
		memoryLimiter.StartJanitor(ctx, 2*time.Minute)
		limiter = memoryLimiter
	}

	collector := metrics.NewCollector()
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		JobHandler:         handlers.NewJobHandler(postingService, applicationService),
		ApplicationHandler: handlers.NewApplicationHandler(applicationService, limiter, cfg.ApplyRateLimitPerMin, collector),
		AdminHandler:       handlers.NewAdminHandler(postingService, userService, dashboardService),
		TokenHandler:       handlers.NewTokenHandler(userService, jwtProvider, cfg.AccessTokenTTL, cfg.InternalAPIKey),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider, userService),
		Metrics:            collector,
		Limiter:            limiter,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api started", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("api stopped gracefully")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, *sql.DB, error) {
	if cfg.UsesMemoryStores() {
		logger.Warn("database url missing, using in-memory stores")
		store := memory.NewStore()
		return repositories{
			users:        store.Users(),
			postings:     store.JobPostings(),
			applications: store.Applications(),
		}, nil, nil
	}

	db, err := database.NewPostgres(ctx, database.PostgresConfig{
		Driver:          cfg.DBDriver,
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
		ConnectTimeout:  cfg.DBConnectTimeout,
	}, logger)
	if err != nil {
		return repositories{}, nil, err
	}
	if cfg.RunMigrations {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, nil, err
		}
		logger.Info("database schema applied")
	}
	return repositories{
		users:        postgres.NewUserRepository(db),
		postings:     postgres.NewJobPostingRepository(db),
		applications: postgres.NewApplicationRepository(db),
	}, db, nil
}

func connectRedis(ctx context.Context, url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Error("redis url parse failed", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis ping failed, falling back to in-process rate limits", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	return client
}
