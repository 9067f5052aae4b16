package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Redis       RedisConfig
	ClientState ClientStateConfig
	Auth        AuthConfig
	Admin       AdminConfig
	S3          S3Config
	Log         LogConfig
	Cache       CacheConfig
	Scheduler   SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	NodeID      int64 // snowflake node for order numbers
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// ClientStateConfig selects where per-client state (cart, theme, language,
// search history) is persisted.
type ClientStateConfig struct {
	Backend  string // bolt, redis
	BoltPath string
}

type AuthConfig struct {
	Provider string // mock, database
}

type AdminConfig struct {
	Password      string
	SessionSecret string
	SessionMaxAge time.Duration
	SecureCookie  bool
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
	PresignExpiry   time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type CacheConfig struct {
	TTL      time.Duration
	LRUSize  int
	UseRedis bool
}

type SchedulerConfig struct {
	TemplateStatusSpec string
	HotTemplateCount   int
	NewTemplateWindow  time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			NodeID:      cast.ToInt64(getEnv("SERVER_NODE_ID", "1")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "beluga_goods"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Redis: RedisConfig{
			Enabled:  cast.ToBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       cast.ToInt(getEnv("REDIS_DB", "0")),
		},
		ClientState: ClientStateConfig{
			Backend:  getEnv("CLIENT_STATE_BACKEND", "bolt"),
			BoltPath: getEnv("CLIENT_STATE_BOLT_PATH", "data/client_state.db"),
		},
		Auth: AuthConfig{
			Provider: getEnv("AUTH_PROVIDER", "database"),
		},
		Admin: AdminConfig{
			Password:      getEnv("ADMIN_PASSWORD", ""),
			SessionSecret: getEnv("ADMIN_SESSION_SECRET", "change-me-admin-session-secret"),
			SessionMaxAge: parseDuration(getEnv("ADMIN_SESSION_MAX_AGE", "2h"), 2*time.Hour),
			SecureCookie:  cast.ToBool(getEnv("ADMIN_SECURE_COOKIE", "false")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			PresignExpiry:   parseDuration(getEnv("AWS_S3_PRESIGN_EXPIRY", "15m"), 15*time.Minute),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", ""),
			Format:     getEnv("LOG_FORMAT", "console"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  cast.ToInt(getEnv("LOG_FILE_MAX_SIZE_MB", "64")),
			MaxBackups: cast.ToInt(getEnv("LOG_FILE_MAX_BACKUPS", "7")),
			MaxAgeDays: cast.ToInt(getEnv("LOG_FILE_MAX_AGE_DAYS", "7")),
		},
		Cache: CacheConfig{
			TTL:      parseDuration(getEnv("CACHE_TTL", "5m"), 5*time.Minute),
			LRUSize:  cast.ToInt(getEnv("CACHE_LRU_SIZE", "512")),
			UseRedis: cast.ToBool(getEnv("CACHE_USE_REDIS", "false")),
		},
		Scheduler: SchedulerConfig{
			TemplateStatusSpec: getEnv("TEMPLATE_STATUS_CRON", "0 9 * * *"),
			HotTemplateCount:   cast.ToInt(getEnv("TEMPLATE_HOT_COUNT", "5")),
			NewTemplateWindow:  parseDuration(getEnv("TEMPLATE_NEW_WINDOW", "336h"), 14*24*time.Hour),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Auth.Provider {
	case "mock", "database":
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	switch c.ClientState.Backend {
	case "bolt":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("CLIENT_STATE_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown CLIENT_STATE_BACKEND %q", c.ClientState.Backend)
	}
	if c.Cache.UseRedis && !c.Redis.Enabled {
		return fmt.Errorf("CACHE_USE_REDIS=true requires REDIS_ENABLED=true")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
