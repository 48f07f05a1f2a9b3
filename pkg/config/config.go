// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Report   ReportConfig
	Country  CountryConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host               string
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	// Backend is either "postgres" or "sqlite".
	Backend         string
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type ReportConfig struct {
	Timezone     string
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheSize    int
}

type CountryConfig struct {
	// Source is either "csv" or "sheets".
	Source             string
	CSVPath            string
	CSVDelimiter       string
	SpreadsheetID      string
	SheetRange         string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type AuthConfig struct {
	JWTSecret string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory are loaded first and never override the process env.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnv("SERVER_PORT", "8080"),
			ReadTimeout:        getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:        getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Backend:         strings.ToLower(getEnv("DATA_BACKEND", "postgres")),
			URL:             getEnv("DATABASE_URL", ""),
			SQLitePath:      getEnv("SQLITE_DB_PATH", "./data/transactions.db"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Report: ReportConfig{
			Timezone:     getEnv("REPORT_TIMEZONE", "UTC"),
			CacheEnabled: getBoolEnv("REPORT_CACHE_ENABLED", false),
			CacheTTL:     getDurationEnv("REPORT_CACHE_TTL", 30*time.Second),
			CacheSize:    getIntEnv("REPORT_CACHE_SIZE", 256),
		},
		Country: CountryConfig{
			Source:             strings.ToLower(getEnv("COUNTRY_SOURCE", "csv")),
			CSVPath:            getEnv("COUNTRY_CSV_PATH", "./data/user_countries.csv"),
			CSVDelimiter:       getEnv("COUNTRY_CSV_DELIMITER", ";"),
			SpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
			SheetRange:         getEnv("GOOGLE_COUNTRY_RANGE", "Countries!A:B"),
			ServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
			ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Location resolves the report time zone, falling back to UTC.
func (c ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func normalizeRedisURL(url string) string {
	// Strip redis:// or redis+tls:// scheme if present
	if strings.HasPrefix(url, "redis+tls://") {
		return url[len("redis+tls://"):]
	}
	if strings.HasPrefix(url, "redis://") {
		return url[len("redis://"):]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}
