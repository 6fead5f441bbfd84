package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"gitlab.com/results-api.net/internal/adapter/crypto"
	"gitlab.com/results-api.net/internal/adapter/logging"
	"gitlab.com/results-api.net/internal/adapter/memory"
	"gitlab.com/results-api.net/internal/adapter/postgres"
	"gitlab.com/results-api.net/internal/adapter/postgres/resultrepository"
	"gitlab.com/results-api.net/internal/adapter/postgres/userrepository"
	"gitlab.com/results-api.net/internal/adapter/redis/resultcache"
	"gitlab.com/results-api.net/internal/config"
	"gitlab.com/results-api.net/internal/core/ports/secondary"
	auth2 "gitlab.com/results-api.net/internal/core/services/auth"
	"gitlab.com/results-api.net/internal/core/services/result"
	logger2 "gitlab.com/results-api.net/internal/global/logger"
	http2 "gitlab.com/results-api.net/internal/http"
)

type storage struct {
	results secondary.ResultRepository
	users   secondary.UserPort
	tx      secondary.Transactor
	close   func()
}

func main() {
	InitReader()

	sysCfg := config.NewSystemConfig()
	logger := logging.NewZapLoggerWithLevel(sysCfg.LogLevel)
	logger2.Use(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(sysCfg, logger); err != nil {
		logger.Error("Service stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(sysCfg *config.AppConfig, logger *logging.ZapLogger) error {
	// Set up graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info("Starting results service", "storage", sysCfg.StorageDriver)

	// SECONDARY PORTS
	store, err := setupStorage(ctx, sysCfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	resultRepo, tx := store.results, store.tx
	if sysCfg.RedisConfig.Enabled {
		redisClient := setupRedis(sysCfg.RedisConfig)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, results are served from storage", "addr", sysCfg.RedisConfig.Url, "error", err)
		}
		cached := resultcache.New(resultRepo, tx, redisClient, sysCfg.RedisConfig.ResultTTL, logger)
		resultRepo, tx = cached, cached
	}

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	if sysCfg.AdminConfig.Enabled() {
		admin, err := auth2.EnsureAdmin(ctx, store.users, jwtProvider, sysCfg.AdminConfig.UserName, sysCfg.AdminConfig.Password)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		logger.Info("Admin account ready", "id", admin.ID, "username", admin.UserName)
	}

	//services
	resultSvc := result.NewResultService(resultRepo, store.users, tx, logger)
	ggAuth := auth2.NewGoogleAuthService(store.users, jwtProvider, sysCfg.GGAuthConfig)
	localAuth := auth2.NewLocalAuthService(store.users, jwtProvider)
	serviceProvider := http2.NewServiceProvider(resultSvc, ggAuth, localAuth, jwtProvider, sysCfg.GGAuthConfig)

	//server
	httpServer := http2.NewServer(sysCfg.HttpConfig.Port, sysCfg.HttpConfig.ServiceName, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		return err
	}
	serveErr := httpServer.Start(context.Background())

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("successfully shutdown server")
	return nil
}

func setupStorage(ctx context.Context, sysCfg *config.AppConfig, logger *logging.ZapLogger) (*storage, error) {
	switch sysCfg.StorageDriver {
	case config.StorageMemory:
		store := memory.New()
		return &storage{results: store, users: store, tx: store, close: func() {}}, nil
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, sysCfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		schema := sysCfg.PostgresConfig.Schema
		if err := postgres.Migrate(ctx, db, schema); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storage{
			results: resultrepository.New(db, logger, schema),
			users:   userrepository.New(db, logger, schema),
			tx:      postgres.NewTransactor(db, logger),
			close:   func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", sysCfg.StorageDriver)
	}
}

// setupRedis sets up the Redis connection
func setupRedis(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// InitReader loads <env>.env when an environment name is given as the first argument.
func InitReader() {
	if len(os.Args) < 2 {
		return
	}
	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
