package pkg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/powerplay-sports/booking-service/internal/config"
	"github.com/powerplay-sports/booking-service/internal/repositories"
	"github.com/powerplay-sports/booking-service/internal/repositories/memory"
	"github.com/powerplay-sports/booking-service/internal/repositories/mongodb"
	pgrepo "github.com/powerplay-sports/booking-service/internal/repositories/postgres"
)

const connectTimeout = 15 * time.Second

// InitDatabase opens the PostgreSQL connection pool used by the postgres driver
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Environment == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Store.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// NewRedisClient parses REDIS_URL and checks the server answers
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// OpenRepository connects the store selected by STORE_DRIVER and tries to
// create the unique email index.
func OpenRepository(ctx context.Context, cfg *config.Config, log *slog.Logger) (repositories.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var repo repositories.Repository
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Store.MongoConnectionURI(),
			Database: cfg.Store.DBName,
		})
		if err != nil {
			return nil, err
		}
		repo = mongodb.NewMongoRepository(client, cfg.Store.DBName)
	case config.DriverPostgres:
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		repo = pgrepo.NewPostgreSQLRepository(db)
	case config.DriverMemory:
		log.Warn("Using in-memory store; data is lost on restart")
		repo = memory.NewRepository()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	ensureIndexes(ctx, repo, log)

	log.Info("Store connected", "driver", cfg.Store.Driver)
	return repo, nil
}

// ensureIndexes tolerates failure: existing data may already hold duplicate
// emails, and registration still checks for an existing user first.
func ensureIndexes(ctx context.Context, repo repositories.Repository, log *slog.Logger) {
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn("Unique email index not created, continuing without it", "error", err)
	}
}
