package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("REPORT_CACHE_TTL", "")
	t.Setenv("COUNTRY_SOURCE", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.Database.Backend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Report.CacheTTL)
	assert.False(t, cfg.Report.CacheEnabled)
	assert.Equal(t, "csv", cfg.Country.Source)
	assert.Equal(t, ";", cfg.Country.CSVDelimiter)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_BACKEND", "SQLite")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("REPORT_CACHE_ENABLED", "on")
	t.Setenv("REPORT_CACHE_TTL", "2m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.Database.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.URL)
	assert.True(t, cfg.Report.CacheEnabled)
	assert.Equal(t, 2*time.Minute, cfg.Report.CacheTTL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestValidateCore(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Backend: "postgres", URL: "postgres://localhost/tx"},
			Report:   ReportConfig{Timezone: "UTC"},
			Country:  CountryConfig{Source: "csv", CSVPath: "countries.csv", CSVDelimiter: ";"},
		}
	}

	require.NoError(t, valid().ValidateCore())

	cfg := valid()
	cfg.Database.URL = ""
	assert.ErrorContains(t, cfg.ValidateCore(), "DATABASE_URL")

	cfg = valid()
	cfg.Database.Backend = "mysql"
	assert.ErrorContains(t, cfg.ValidateCore(), "unsupported DATA_BACKEND")

	cfg = valid()
	cfg.Country.Source = "sheets"
	assert.ErrorContains(t, cfg.ValidateCore(), "GOOGLE_SPREADSHEET_ID")

	cfg = valid()
	cfg.Country.CSVDelimiter = ";;"
	assert.ErrorContains(t, cfg.ValidateCore(), "single character")

	cfg = valid()
	cfg.Report.Timezone = "Mars/Olympus"
	assert.ErrorContains(t, cfg.ValidateCore(), "REPORT_TIMEZONE")
}

func TestReportConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, ReportConfig{Timezone: "nowhere"}.Location())
	assert.Equal(t, time.Local, ReportConfig{Timezone: "Local"}.Location())
}
