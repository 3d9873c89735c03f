package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tradeJournalBot/internal/adapters/logger" // Import the logger package for LogLevel
	"tradeJournalBot/internal/ports"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreSheets = "sheets"
)

// Config holds all application configuration.
type Config struct {
	// Telegram
	BotToken    string
	AdminChatID int64 // the single authorized chat; everyone else is refused

	// Journal store
	StoreBackend  string // sqlite (default) or sheets
	DBPath        string
	SpreadsheetID string
	SheetName     string
	Credentials   []byte // resolved service-account key for the sheets backend

	// Scheduled risk report
	Location     *time.Location
	ReportHours  []int
	ReportMinute int

	// Logging
	LogLevel logger.LogLevel
}

// Load reads configuration from environment variables (.env file).
func Load() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.BotToken = getEnv("BOT_TOKEN", "")
	if cfg.BotToken == "" {
		errs = append(errs, "BOT_TOKEN must be set")
	}

	adminID, err := strconv.ParseInt(getEnv("ADMIN_CHAT_ID", "0"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ADMIN_CHAT_ID: %v", err))
	} else if adminID == 0 {
		errs = append(errs, "ADMIN_CHAT_ID must be set")
	}
	cfg.AdminChatID = adminID

	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", StoreSQLite))
	switch cfg.StoreBackend {
	case StoreSQLite:
		cfg.DBPath = getEnv("DB_PATH", "./data/journal.db")
	case StoreSheets:
		cfg.SpreadsheetID = getEnv("SHEET_ID", "")
		if cfg.SpreadsheetID == "" {
			errs = append(errs, "SHEET_ID must be set for the sheets backend")
		}
		cfg.SheetName = getEnv("SHEET_NAME", "Trades")
		creds, err := resolveCredentials(os.Getenv("CREDENTIALS_JSON"))
		if err != nil {
			errs = append(errs, err.Error())
		}
		cfg.Credentials = creds
	default:
		errs = append(errs, fmt.Sprintf("unknown STORE_BACKEND %q (want %s or %s)", cfg.StoreBackend, StoreSQLite, StoreSheets))
	}

	tzName := getEnv("TIMEZONE", "Asia/Tokyo")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TIMEZONE %q: %v", tzName, err))
	}
	cfg.Location = loc

	cfg.ReportHours, err = parseHours(getEnv("REPORT_HOURS", "12,20"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REPORT_HOURS: %v", err))
	}

	cfg.ReportMinute = getEnvAsInt("REPORT_MINUTE", 30)
	if cfg.ReportMinute < 0 || cfg.ReportMinute > 59 {
		errs = append(errs, "REPORT_MINUTE must be between 0 and 59")
	}

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// resolveCredentials decodes the CREDENTIALS_JSON env var. Deployments ship
// the service-account key either base64-wrapped or as raw JSON; both are
// accepted, tried in that order. Falls back to a local credentials.json file
// when the variable is unset (dev only).
func resolveCredentials(raw string) ([]byte, error) {
	if raw == "" {
		data, err := os.ReadFile("credentials.json")
		if err != nil {
			return nil, fmt.Errorf("CREDENTIALS_JSON is unset and credentials.json is unreadable: %w", ports.ErrConfigurationError)
		}
		return data, nil
	}

	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil && json.Valid(decoded) {
		return decoded, nil
	}
	if json.Valid([]byte(raw)) {
		return []byte(raw), nil
	}
	return nil, fmt.Errorf("CREDENTIALS_JSON is neither base64-wrapped nor raw JSON: %w", ports.ErrConfigurationError)
}

// parseHours parses a comma-separated list of 24h clock hours.
func parseHours(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	hours := make([]int, 0, len(parts))
	for _, p := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid hour %q: %w", p, err)
		}
		if h < 0 || h > 23 {
			return nil, fmt.Errorf("hour %d out of range", h)
		}
		hours = append(hours, h)
	}
	if len(hours) == 0 {
		return nil, fmt.Errorf("no hours given")
	}
	return hours, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
