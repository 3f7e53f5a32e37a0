package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Auth provider (JWKS issuer)
	AuthDomain   string
	AuthAudience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// RemoteTimeout bounds every individual call against the database and
	// external collaborators.
	RemoteTimeout time.Duration

	// ReauthMaxAge is how fresh a token must be for sensitive profile
	// mutations (email change, account deletion).
	ReauthMaxAge time.Duration

	// S3 Storage (report files)
	S3 S3Config

	// Report row uploader
	Sheets SheetsConfig
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// SheetsConfig selects and configures the spreadsheet row uploader.
// Backend is one of: sheetdb, google, memory.
type SheetsConfig struct {
	Backend string

	// sheetdb
	SheetDBURL string

	// google
	SpreadsheetID string
	SheetName     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AuthDomain:    getEnv("AUTH_DOMAIN", ""),
		AuthAudience:  getEnv("AUTH_AUDIENCE", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "http://localhost:8100"), ","),
		Env:           getEnv("ENV", "development"),
		RemoteTimeout: getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),
		ReauthMaxAge:  getEnvDuration("REAUTH_MAX_AGE", 5*time.Minute),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "tesouraria-reports"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
		Sheets: SheetsConfig{
			Backend:       getEnv("SHEETS_BACKEND", "memory"),
			SheetDBURL:    getEnv("SHEETDB_URL", ""),
			SpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
			SheetName:     getEnv("GOOGLE_SHEET_NAME", "Relatorios"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AuthDomain == "" {
		return fmt.Errorf("AUTH_DOMAIN is required")
	}
	if c.AuthAudience == "" {
		return fmt.Errorf("AUTH_AUDIENCE is required")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.Sheets.Backend {
	case "sheetdb":
		if c.Sheets.SheetDBURL == "" {
			return fmt.Errorf("SHEETDB_URL is required when SHEETS_BACKEND=sheetdb")
		}
	case "google":
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("GOOGLE_SPREADSHEET_ID is required when SHEETS_BACKEND=google")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid SHEETS_BACKEND %q: must be sheetdb, google or memory", c.Sheets.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
