package config

import (
	"errors"
	"fmt"
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

// Flash store backends.
const (
	FlashStoreCookie = "cookie"
	FlashStoreRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	API      CourseAPIConfig
	Autosave AutosaveConfig
	Flash    FlashConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Export   ExportConfig
}

// CourseAPIConfig points at the remote course endpoint.
type CourseAPIConfig struct {
	Root    string
	Timeout time.Duration
}

// AutosaveConfig tunes update-form edit sessions.
type AutosaveConfig struct {
	Delay           time.Duration
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

// FlashConfig selects where user notifications survive a redirect.
type FlashConfig struct {
	Store  string
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
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

// MetricsConfig gates the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// ExportConfig gates list export downloads.
type ExportConfig struct {
	Enabled bool
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.API = CourseAPIConfig{
		Root:    strings.TrimRight(strings.TrimSpace(v.GetString("API_ROOT")), "/"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 0),
	}

	cfg.Autosave = AutosaveConfig{
		Delay:           parseDuration(v.GetString("AUTOSAVE_DELAY"), 500*time.Millisecond),
		IdleTTL:         parseDuration(v.GetString("SESSION_IDLE_TTL"), 30*time.Minute),
		CleanupInterval: parseDuration(v.GetString("SESSION_CLEANUP_INTERVAL"), time.Minute),
	}

	cfg.Flash = FlashConfig{
		Store:  strings.ToLower(strings.TrimSpace(v.GetString("FLASH_STORE"))),
		Secret: v.GetString("FLASH_SECRET"),
		TTL:    parseDuration(v.GetString("FLASH_TTL"), 10*time.Minute),
	}

	cfg.Redis = RedisConfig{
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

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Export = ExportConfig{Enabled: v.GetBool("ENABLE_EXPORT")}

	return cfg
}

// Validate rejects configurations the console cannot run with.
func (c *Config) Validate() error {
	if c.API.Root == "" {
		return errors.New("API_ROOT is required")
	}
	if c.Autosave.Delay <= 0 {
		return fmt.Errorf("AUTOSAVE_DELAY must be positive, got %s", c.Autosave.Delay)
	}
	switch c.Flash.Store {
	case FlashStoreCookie, FlashStoreRedis:
	default:
		return fmt.Errorf("unknown FLASH_STORE %q", c.Flash.Store)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("API_ROOT", "")
	v.SetDefault("API_TIMEOUT", "0s")

	v.SetDefault("AUTOSAVE_DELAY", "500ms")
	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("SESSION_CLEANUP_INTERVAL", "1m")

	v.SetDefault("FLASH_STORE", FlashStoreCookie)
	v.SetDefault("FLASH_SECRET", "dev_flash_secret")
	v.SetDefault("FLASH_TTL", "10m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
