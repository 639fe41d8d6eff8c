package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the dashboard.
type Config struct {
	App       AppConfig
	API       APIConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Dashboard DashboardConfig
}

// AppConfig controls presentation server behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig points the fetch gateway at the ticket API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines the service token presented to the ticket API.
type AuthConfig struct {
	JWTSecret             string
	ServiceSubject        string
	ServiceRole           string
	AccessTokenTTLMinutes int
}

// DashboardConfig holds view tuning values.
type DashboardConfig struct {
	PageSize               int
	SearchDebounceMillis   int
	StatsRefreshSeconds    int
	NotificationTTLSeconds int
	ExportFormat           string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	baseURL := strings.TrimRight(getEnv("TICKET_API_BASE_URL", "http://127.0.0.1:5000"), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("invalid TICKET_API_BASE_URL: empty")
	}

	pageSize := getEnvAsInt("DASHBOARD_PAGE_SIZE", 10)
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid DASHBOARD_PAGE_SIZE: %d", pageSize)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL:        baseURL,
			TimeoutSeconds: getEnvAsInt("TICKET_API_TIMEOUT_SECONDS", 10),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			ServiceSubject:        getEnv("AUTH_SERVICE_SUBJECT", "ticket-dashboard"),
			ServiceRole:           getEnv("AUTH_SERVICE_ROLE", "admin"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Dashboard: DashboardConfig{
			PageSize:               pageSize,
			SearchDebounceMillis:   getEnvAsInt("DASHBOARD_SEARCH_DEBOUNCE_MS", 300),
			StatsRefreshSeconds:    getEnvAsInt("DASHBOARD_STATS_REFRESH_SECONDS", 30),
			NotificationTTLSeconds: getEnvAsInt("DASHBOARD_NOTIFICATION_TTL_SECONDS", 5),
			ExportFormat:           getEnv("DASHBOARD_EXPORT_FORMAT", "csv"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call timeout for the ticket API.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// SearchDebounce returns the quiet period before a search is applied.
func (d DashboardConfig) SearchDebounce() time.Duration {
	if d.SearchDebounceMillis <= 0 {
		return 0
	}
	return time.Duration(d.SearchDebounceMillis) * time.Millisecond
}

// StatsRefreshInterval returns the periodic stats refresh interval.
func (d DashboardConfig) StatsRefreshInterval() time.Duration {
	if d.StatsRefreshSeconds <= 0 {
		return 0
	}
	return time.Duration(d.StatsRefreshSeconds) * time.Second
}

// NotificationTTL returns how long a notification stays visible.
func (d DashboardConfig) NotificationTTL() time.Duration {
	if d.NotificationTTLSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.NotificationTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
