package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Model      ModelConfig
	Storage    StorageConfig
	Generation GenerationConfig
	Progress   ProgressConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ModelConfig configures the upstream text-generation endpoint.
type ModelConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int
	BackoffUnit time.Duration
}

// StorageConfig points at the stage artifact directory.
type StorageConfig struct {
	Dir string
}

// GenerationConfig sizes the generation worker pool.
type GenerationConfig struct {
	Workers            int
	QueueBuffer        int
	ProductConcurrency int
	RecoverOnStart     bool
	RecoverInterval    time.Duration
	ClaimTTL           time.Duration
}

// ProgressConfig governs the job progress snapshot cache.
type ProgressConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Model = ModelConfig{
		APIKey:      v.GetString("CLAUDE_API_KEY"),
		Model:       v.GetString("CLAUDE_MODEL"),
		BaseURL:     v.GetString("CLAUDE_BASE_URL"),
		Timeout:     parseDuration(v.GetString("CLAUDE_TIMEOUT"), 60*time.Second),
		MaxRetries:  positiveInt(v.GetInt("CLAUDE_MAX_RETRIES"), 3),
		MaxTokens:   positiveInt(v.GetInt("CLAUDE_MAX_TOKENS"), 4000),
		BackoffUnit: parseDuration(v.GetString("CLAUDE_BACKOFF_UNIT"), time.Second),
	}

	cfg.Storage = StorageConfig{Dir: v.GetString("STORAGE_DIR")}

	cfg.Generation = GenerationConfig{
		Workers:            positiveInt(v.GetInt("GENERATION_WORKERS"), 2),
		QueueBuffer:        positiveInt(v.GetInt("GENERATION_QUEUE_BUFFER"), 64),
		ProductConcurrency: positiveInt(v.GetInt("GENERATION_PRODUCT_CONCURRENCY"), 4),
		RecoverOnStart:     v.GetBool("GENERATION_RECOVER_ON_START"),
		RecoverInterval:    parseInterval(v.GetString("GENERATION_RECOVER_INTERVAL"), 5*time.Minute),
		ClaimTTL:           parseDuration(v.GetString("GENERATION_CLAIM_TTL"), 20*time.Minute),
	}

	cfg.Progress = ProgressConfig{
		CacheEnabled: v.GetBool("ENABLE_PROGRESS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("PROGRESS_CACHE_TTL"), 10*time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "edu_content")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CLAUDE_API_KEY", "")
	v.SetDefault("CLAUDE_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("CLAUDE_BASE_URL", "https://api.anthropic.com/v1/messages")
	v.SetDefault("CLAUDE_TIMEOUT", "60s")
	v.SetDefault("CLAUDE_MAX_RETRIES", 3)
	v.SetDefault("CLAUDE_MAX_TOKENS", 4000)
	v.SetDefault("CLAUDE_BACKOFF_UNIT", "1s")

	v.SetDefault("STORAGE_DIR", "./storage")

	v.SetDefault("GENERATION_WORKERS", 2)
	v.SetDefault("GENERATION_QUEUE_BUFFER", 64)
	v.SetDefault("GENERATION_PRODUCT_CONCURRENCY", 4)
	v.SetDefault("GENERATION_RECOVER_ON_START", true)
	v.SetDefault("GENERATION_RECOVER_INTERVAL", "5m")
	v.SetDefault("GENERATION_CLAIM_TTL", "20m")

	v.SetDefault("ENABLE_PROGRESS_CACHE", false)
	v.SetDefault("PROGRESS_CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

// parseInterval is parseDuration that also accepts "0" to switch a periodic task off.
func parseInterval(raw string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(raw) == "0" {
		return 0
	}
	return parseDuration(raw, fallback)
}

func positiveInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
