package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/classroom-backend/internal/data/cache"
	dbpkg "github.com/yungbote/classroom-backend/internal/data/db"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

const (
	defaultJWTSecret = "dev_secret_change_me"
	serviceName      = "classroom-backend"
)

type Config struct {
	Env     string
	Port    string
	LogMode string

	DB               dbpkg.Config
	DBHealthInterval time.Duration

	JWTSecret       string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	SessionCacheTTL time.Duration
	SessionPurge    time.Duration

	Redis cache.RedisConfig

	CORSOrigins     []string
	MetricsEnabled  bool
	MetricsAddr     string
	ShutdownTimeout time.Duration
	Otel            observability.OtelConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "5001")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("DB_DRIVER", dbpkg.DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_NAME", "classroom")
	v.SetDefault("SQLITE_PATH", "classroom.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_SLOW_THRESHOLD", "1s")
	v.SetDefault("DB_HEALTH_INTERVAL", "2s")
	v.SetDefault("JWT_SECRET_KEY", defaultJWTSecret)
	v.SetDefault("ACCESS_TOKEN_TTL", 604800)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("SESSION_CACHE_TTL", "15m")
	v.SetDefault("SESSION_PURGE_INTERVAL", "1h")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SAMPLER_RATIO", 1.0)
	v.SetDefault("SERVICE_VERSION", "dev")
}

// LoadConfig reads configuration from the environment, optionally layered
// over the file named by CONFIG_FILE. Environment values always win.
func LoadConfig(log *logger.Logger) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg := Config{
		Env:     v.GetString("APP_ENV"),
		Port:    v.GetString("PORT"),
		LogMode: v.GetString("LOG_MODE"),
		DB: dbpkg.Config{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			SQLitePath:    v.GetString("SQLITE_PATH"),
			SlowThreshold: v.GetDuration("DB_SLOW_THRESHOLD"),
			MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		DBHealthInterval: v.GetDuration("DB_HEALTH_INTERVAL"),
		JWTSecret:        v.GetString("JWT_SECRET_KEY"),
		AccessTokenTTL:   time.Duration(v.GetInt("ACCESS_TOKEN_TTL")) * time.Second,
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		SessionCacheTTL:  v.GetDuration("SESSION_CACHE_TTL"),
		SessionPurge:     v.GetDuration("SESSION_PURGE_INTERVAL"),
		Redis: cache.RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		CORSOrigins:     splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		MetricsAddr:     v.GetString("METRICS_ADDR"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: serviceName,
			Environment: v.GetString("APP_ENV"),
			Version:     v.GetString("SERVICE_VERSION"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLER_RATIO"),
		},
	}

	if cfg.DB.Driver == dbpkg.DriverPostgres {
		cfg.DB.DSN = strings.TrimSpace(v.GetString("DATABASE_URL"))
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = dbpkg.PostgresDSN(
				v.GetString("POSTGRES_HOST"),
				v.GetString("POSTGRES_PORT"),
				v.GetString("POSTGRES_USER"),
				v.GetString("POSTGRES_PASSWORD"),
				v.GetString("POSTGRES_NAME"),
			)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY is the development default")
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DB.Driver {
	case dbpkg.DriverPostgres, dbpkg.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET_KEY is empty")
	}
	if c.Env == "production" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET_KEY must be set in production")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
