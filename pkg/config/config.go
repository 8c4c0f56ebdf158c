package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	JWTAccessExpiry    time.Duration
	JWTRefreshExpiry   time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GeminiAPIKey       string
	DraftTone          string
	ImportLabel        string
	SyncInterval       time.Duration
	ScheduledPageSize  int
	OnDemandPageSize   int
	OnDemandWindowDays int

	// Legacy single-account credentials, reconciled into the accounts
	// table once at startup. Kept for installs migrating from the old
	// settings-based token storage.
	LegacyGmailAddress      string
	LegacyGmailRefreshToken string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	syncInterval := 5 * time.Minute
	if iv := os.Getenv("SYNC_INTERVAL"); iv != "" {
		if parsed, err := time.ParseDuration(iv); err == nil {
			syncInterval = parsed
		}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=salescrm port=5432 sslmode=disable"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:    accessExpiry,
		JWTRefreshExpiry:   refreshExpiry,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/accounts/connect/callback"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		DraftTone:          getEnv("DRAFT_TONE", "professional"),
		ImportLabel:        getEnv("IMPORT_LABEL", "CRM/Imported"),
		SyncInterval:       syncInterval,
		ScheduledPageSize:  getEnvInt("SYNC_SCHEDULED_PAGE_SIZE", 10),
		OnDemandPageSize:   getEnvInt("SYNC_ON_DEMAND_PAGE_SIZE", 25),
		OnDemandWindowDays: getEnvInt("SYNC_ON_DEMAND_WINDOW_DAYS", 7),

		LegacyGmailAddress:      getEnv("LEGACY_GMAIL_ADDRESS", ""),
		LegacyGmailRefreshToken: getEnv("LEGACY_GMAIL_REFRESH_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
