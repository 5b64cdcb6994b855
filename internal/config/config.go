package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration

	Store StoreConfig
	JWT   JWTConfig
	Redis RedisConfig
	Kafka KafkaConfig
}

type StoreConfig struct {
	Driver string

	// MongoDB
	MongoURI   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	// PostgreSQL
	DatabaseURL string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	URL          string
	RoleCacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", 30*time.Second)

	v.SetDefault("store_driver", DriverMongo)
	v.SetDefault("db_host", "cluster0.3vaow4q.mongodb.net")
	v.SetDefault("db_name", "powerPlaySports")

	v.SetDefault("token_ttl", 5000*time.Hour)
	v.SetDefault("role_cache_ttl", 5*time.Minute)
	v.SetDefault("events_topic_prefix", "powerplay.")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:            v.GetString("port"),
		Environment:     v.GetString("environment"),
		LogLevel:        parseLevel(v.GetString("log_level")),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		Store: StoreConfig{
			Driver:      strings.ToLower(v.GetString("store_driver")),
			MongoURI:    v.GetString("mongo_uri"),
			DBUser:      v.GetString("db_user"),
			DBPassword:  v.GetString("db_password"),
			DBHost:      v.GetString("db_host"),
			DBName:      v.GetString("db_name"),
			DatabaseURL: v.GetString("database_url"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("access_token"),
			TTL:    v.GetDuration("token_ttl"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis_url"),
			RoleCacheTTL: v.GetDuration("role_cache_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("kafka_brokers")),
			TopicPrefix: v.GetString("events_topic_prefix"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing setting that would make startup fail.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" && (c.Store.DBUser == "" || c.Store.DBPassword == "") {
			errs = append(errs, errors.New("DB_USER and DB_PASSWORD are required (or MONGO_URI)"))
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// MongoConnectionURI returns MONGO_URI, or the Atlas SRV URI built from the credentials.
func (s StoreConfig) MongoConnectionURI() string {
	if s.MongoURI != "" {
		return s.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(s.DBUser), url.QueryEscape(s.DBPassword), s.DBHost)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
