package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment string
	API         APIConfig
	Storage     StorageConfig
	Redis       RedisConfig
	Geolocation GeolocationConfig
	Derivation  DerivationConfig
	Pagination  PaginationConfig
	Map         MapConfig
	OTEL        OTELConfig
	Sentry      SentryConfig
}

// APIConfig holds the facility query endpoint configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig holds durable client storage configuration
type StorageConfig struct {
	Backend   string
	Namespace string
	Dir       string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// GeolocationConfig holds geolocation provider configuration
type GeolocationConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// DerivationConfig holds the occupancy cut-offs used for availability status.
// Occupancy below AcceptingBelow is Accepting, below WaitlistBelow is Waitlist,
// anything else is Full.
type DerivationConfig struct {
	AcceptingBelow float64
	WaitlistBelow  float64
}

// PaginationConfig holds result list paging configuration
type PaginationConfig struct {
	PageSize int
	Delta    int
}

// MapConfig holds map surface defaults
type MapConfig struct {
	FallbackLat     float64
	FallbackLng     float64
	SingleZoom      int
	ContinentalZoom int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN string
}

var defaults = map[string]string{
	"ENVIRONMENT":            "development",
	"FACILITY_API_BASE_URL":  "http://localhost:8080/api",
	"FACILITY_API_TIMEOUT":   "10s",
	"STORAGE_BACKEND":        "file",
	"STORAGE_NAMESPACE":      "nursinghome",
	"STORAGE_DIR":            ".facility-state",
	"REDIS_HOST":             "localhost",
	"REDIS_PORT":             "6379",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               "0",
	"GEOLOCATION_PROVIDER":   "mock",
	"GEOLOCATION_API_KEY":    "",
	"GEOLOCATION_BASE_URL":   "",
	"STATUS_ACCEPTING_BELOW": "0.80",
	"STATUS_WAITLIST_BELOW":  "1.00",
	"PAGE_SIZE":              "6",
	"PAGE_DELTA":             "2",
	"MAP_FALLBACK_LAT":       "39.8283",
	"MAP_FALLBACK_LNG":       "-98.5795",
	"MAP_SINGLE_ZOOM":        "14",
	"MAP_CONTINENTAL_ZOOM":   "4",
	"OTEL_SERVICE_NAME":      "nursinghome-finder",
	"OTEL_SERVICE_VERSION":   "1.0.0",
	"OTEL_ENDPOINT":          "",
	"OTEL_ENABLED":           "false",
	"SENTRY_DSN":             "",
}

// Load loads configuration from environment variables, optionally layered
// over the file named by CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	l := loader{v: v}
	return &Config{
		Environment: l.getString("ENVIRONMENT"),
		API: APIConfig{
			BaseURL: strings.TrimRight(l.getString("FACILITY_API_BASE_URL"), "/"),
			Timeout: l.getDuration("FACILITY_API_TIMEOUT"),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(l.getString("STORAGE_BACKEND")),
			Namespace: l.getString("STORAGE_NAMESPACE"),
			Dir:       l.getString("STORAGE_DIR"),
		},
		Redis: RedisConfig{
			Host:     l.getString("REDIS_HOST"),
			Port:     l.getInt("REDIS_PORT"),
			Password: l.getString("REDIS_PASSWORD"),
			DB:       l.getInt("REDIS_DB"),
		},
		Geolocation: GeolocationConfig{
			Provider: strings.ToLower(l.getString("GEOLOCATION_PROVIDER")),
			APIKey:   l.getString("GEOLOCATION_API_KEY"),
			BaseURL:  l.getString("GEOLOCATION_BASE_URL"),
		},
		Derivation: DerivationConfig{
			AcceptingBelow: l.getFloat("STATUS_ACCEPTING_BELOW"),
			WaitlistBelow:  l.getFloat("STATUS_WAITLIST_BELOW"),
		},
		Pagination: PaginationConfig{
			PageSize: l.getInt("PAGE_SIZE"),
			Delta:    l.getInt("PAGE_DELTA"),
		},
		Map: MapConfig{
			FallbackLat:     l.getFloat("MAP_FALLBACK_LAT"),
			FallbackLng:     l.getFloat("MAP_FALLBACK_LNG"),
			SingleZoom:      l.getInt("MAP_SINGLE_ZOOM"),
			ContinentalZoom: l.getInt("MAP_CONTINENTAL_ZOOM"),
		},
		OTEL: OTELConfig{
			ServiceName:    l.getString("OTEL_SERVICE_NAME"),
			ServiceVersion: l.getString("OTEL_SERVICE_VERSION"),
			Endpoint:       l.getString("OTEL_ENDPOINT"),
			Enabled:        l.getBool("OTEL_ENABLED"),
		},
		Sentry: SentryConfig{
			DSN: l.getString("SENTRY_DSN"),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// loader falls back to the registered default when a value does not parse.
type loader struct {
	v *viper.Viper
}

func (l loader) getString(key string) string {
	return l.v.GetString(key)
}

func (l loader) getInt(key string) int {
	if intVal, err := strconv.Atoi(strings.TrimSpace(l.v.GetString(key))); err == nil {
		return intVal
	}
	intVal, _ := strconv.Atoi(defaults[key])
	return intVal
}

func (l loader) getFloat(key string) float64 {
	if floatVal, err := strconv.ParseFloat(strings.TrimSpace(l.v.GetString(key)), 64); err == nil {
		return floatVal
	}
	floatVal, _ := strconv.ParseFloat(defaults[key], 64)
	return floatVal
}

func (l loader) getBool(key string) bool {
	if boolVal, err := strconv.ParseBool(strings.TrimSpace(l.v.GetString(key))); err == nil {
		return boolVal
	}
	boolVal, _ := strconv.ParseBool(defaults[key])
	return boolVal
}

func (l loader) getDuration(key string) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(l.v.GetString(key))); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(defaults[key])
	return d
}
