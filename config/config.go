package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	LogLevel    string
	StoreDriver string
	Database    DatabaseConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	GraphQL     GraphQLConfig
	LiveUpdates bool
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	URL string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// GraphQLConfig selects how the web pages reach the API. An empty Endpoint
// means the pages execute against the in-process schema.
type GraphQLConfig struct {
	Endpoint string
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "contentlib")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MONGODB_DATABASE", "contentlib")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("LIVE_UPDATES", true)

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetString("SERVER_PORT"),
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		LogLevel:    v.GetString("LOG_LEVEL"),
		StoreDriver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		GraphQL: GraphQLConfig{
			Endpoint: v.GetString("GRAPHQL_ENDPOINT"),
		},
		LiveUpdates: v.GetBool("LIVE_UPDATES"),
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = postgresURL(
			v.GetString("DB_USER"), v.GetString("DB_PASSWORD"),
			v.GetString("DB_HOST"), v.GetString("DB_PORT"),
			v.GetString("DB_NAME"), v.GetString("DB_SSLMODE"),
		)
	}

	switch cfg.StoreDriver {
	case DriverPostgres, DriverMemory:
	case DriverMongo:
		if cfg.MongoDB.URI == "" {
			return nil, fmt.Errorf("MONGODB_URI is required when STORE_DRIVER=%s", DriverMongo)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)", cfg.StoreDriver, DriverPostgres, DriverMongo, DriverMemory)
	}

	return cfg, nil
}

func postgresURL(user, password, host, port, name, sslmode string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	if password == "" {
		u.User = url.User(user)
	}
	return u.String()
}
