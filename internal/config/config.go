package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Reminder frequency modes
const (
	ModeSmart = "smart"
	ModeFixed = "fixed"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Local store (sqlite by default; postgres/mysql for hosted team setups)
	StoreType string
	StorePath string
	StoreURL  string

	// Reminder policy
	ReminderMode         string // smart or fixed
	FixedIntervalMinutes int
	PresentationStyle    string
	DNDEnabled           bool
	DNDRanges            []string // "HH:MM-HH:MM"
	IntensityThreshold   int      // chars typed per rolling window that count as high activity
	TickInterval         time.Duration

	// Gamification
	GamificationEnabled bool
	ShowLevel           bool

	// Git integration
	GitEnabled      bool
	GitRepoPath     string
	GitPollInterval time.Duration
	CommitGrace     time.Duration // delay before the post-commit reminder pass

	// Cloud sync
	CloudBaseURL      string
	CloudClientID     string
	CloudClientSecret string
	LicenseSecret     string

	// Optional shared secret for non-loopback API callers
	APISecret string

	// Weekly summary email (Amazon SES)
	AWSRegion      string
	SummaryEmail   string
	SummaryFrom    string
	SummaryEnabled bool

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present; a missing
// file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "7077"),

		StoreType: getEnv("STORE_TYPE", "sqlite"),
		StorePath: getEnv("STORE_PATH", "./codefit.db"),
		StoreURL:  getEnv("STORE_URL", ""),

		ReminderMode:         getEnv("REMINDER_MODE", ModeSmart),
		FixedIntervalMinutes: getEnvInt("REMINDER_INTERVAL_MINUTES", 60),
		PresentationStyle:    getEnv("REMINDER_STYLE", "notification"),
		DNDEnabled:           getEnvBool("DND_ENABLED", false),
		DNDRanges:            getEnvList("DND_RANGES"),
		IntensityThreshold:   getEnvInt("INTENSITY_THRESHOLD", 300),
		TickInterval:         time.Duration(getEnvInt("TICK_SECONDS", 60)) * time.Second,

		GamificationEnabled: getEnvBool("GAMIFICATION_ENABLED", true),
		ShowLevel:           getEnvBool("SHOW_LEVEL", true),

		GitEnabled:      getEnvBool("GIT_ENABLED", true),
		GitRepoPath:     getEnv("GIT_REPO_PATH", "."),
		GitPollInterval: time.Duration(getEnvInt("GIT_POLL_SECONDS", 30)) * time.Second,
		CommitGrace:     time.Duration(getEnvInt("COMMIT_GRACE_SECONDS", 90)) * time.Second,

		CloudBaseURL:      getEnv("CLOUD_BASE_URL", ""),
		CloudClientID:     getEnv("CLOUD_CLIENT_ID", ""),
		CloudClientSecret: getEnv("CLOUD_CLIENT_SECRET", ""),
		LicenseSecret:     getEnv("LICENSE_SECRET", ""),

		APISecret: getEnv("API_SECRET", ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SummaryEmail:   getEnv("SUMMARY_EMAIL", ""),
		SummaryFrom:    getEnv("SUMMARY_FROM", ""),
		SummaryEnabled: getEnvBool("SUMMARY_ENABLED", false),

		Debug: getEnvBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList reads a comma-separated environment variable
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
