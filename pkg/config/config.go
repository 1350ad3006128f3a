package config

import (
	"errors"
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

	Backend      BackendConfig
	Session      SessionConfig
	Availability AvailabilityConfig
	Cache        CacheConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
}

// BackendConfig locates the school REST backend every booking call is proxied to.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig carries the ambient school parameters (school, academic year,
// periodicity) the backend URL layer requires on every call. They come from the
// deployment environment, never from a hidden singleton.
type SessionConfig struct {
	SchoolID       string
	AcademicYearID int64
	PeriodicityID  string
}

// AvailabilityConfig tunes the slot-availability checker.
type AvailabilityConfig struct {
	Debounce       time.Duration
	EditFetchDelay time.Duration
}

// CacheConfig selects the reference-data cache backend and its read-time max age.
type CacheConfig struct {
	Backend string // "memory" or "redis"
	MaxAge  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CORSConfig shapes the browser-facing preflight policy. The header list and
// preflight cache age come from the environment so a deployment can loosen
// them without a rebuild.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

type LogConfig struct {
	Level  string
	Format string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
	}

	cfg.Session = SessionConfig{
		SchoolID:       v.GetString("SCHOOL_ID"),
		AcademicYearID: v.GetInt64("ACADEMIC_YEAR_ID"),
		PeriodicityID:  v.GetString("PERIODICITY_ID"),
	}

	cfg.Availability = AvailabilityConfig{
		Debounce:       parseDuration(v.GetString("AVAILABILITY_DEBOUNCE"), 400*time.Millisecond),
		EditFetchDelay: parseDuration(v.GetString("EDIT_FETCH_DELAY"), 500*time.Millisecond),
	}

	cfg.Cache = CacheConfig{
		Backend: v.GetString("CACHE_BACKEND"),
		MaxAge:  parseDuration(v.GetString("CACHE_MAX_AGE"), 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		AllowedHeaders: splitAndTrim(v.GetString("CORS_ALLOWED_HEADERS")),
		MaxAge:         parseDuration(v.GetString("CORS_MAX_AGE"), 10*time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("BACKEND_TIMEOUT", "10s")

	v.SetDefault("SCHOOL_ID", "")
	v.SetDefault("ACADEMIC_YEAR_ID", 0)
	v.SetDefault("PERIODICITY_ID", "")

	v.SetDefault("AVAILABILITY_DEBOUNCE", "400ms")
	v.SetDefault("EDIT_FETCH_DELAY", "500ms")

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_MAX_AGE", "5m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Requested-With,X-Request-ID")
	v.SetDefault("CORS_MAX_AGE", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
