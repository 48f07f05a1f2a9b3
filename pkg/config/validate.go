// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidateCore ensures critical configuration is present.
func (c *Config) ValidateCore() error {
	var missing []string

	switch c.Database.Backend {
	case "postgres":
		if strings.TrimSpace(c.Database.URL) == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case "sqlite":
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			missing = append(missing, "SQLITE_DB_PATH")
		}
	default:
		return fmt.Errorf("unsupported DATA_BACKEND %q (expected postgres or sqlite)", c.Database.Backend)
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		missing = append(missing, "SERVER_PORT")
	}

	switch c.Country.Source {
	case "csv":
		if strings.TrimSpace(c.Country.CSVPath) == "" {
			missing = append(missing, "COUNTRY_CSV_PATH")
		}
		if len([]rune(c.Country.CSVDelimiter)) != 1 {
			return fmt.Errorf("COUNTRY_CSV_DELIMITER must be a single character, got %q", c.Country.CSVDelimiter)
		}
	case "sheets":
		if strings.TrimSpace(c.Country.SpreadsheetID) == "" {
			missing = append(missing, "GOOGLE_SPREADSHEET_ID")
		}
		if c.Country.ServiceAccountJSON == "" && c.Country.ServiceAccountFile == "" {
			missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE")
		}
	default:
		return fmt.Errorf("unsupported COUNTRY_SOURCE %q (expected csv or sheets)", c.Country.Source)
	}

	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.Report.Timezone, err)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}
