package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DataDir     string
	CORSOrigins []string

	// HubSpot CRM sync
	HubSpotAccessToken string
	HubSpotBaseURL     string

	// Brevo mailing list sync
	BrevoAPIKey  string
	BrevoListID  int
	BrevoBaseURL string

	// Outbound sync calls share one bounded timeout
	SyncTimeout time.Duration

	// SendGrid owner notification
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	LeadNotifyEmail   string

	// Optional guard for the admin endpoints (list/delete)
	AdminJWTSecret string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DataDir:     getEnv("DATA_DIR", "data"),
		CORSOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),

		HubSpotAccessToken: getEnv("HUBSPOT_ACCESS_TOKEN", ""),
		HubSpotBaseURL:     getEnv("HUBSPOT_BASE_URL", ""),

		BrevoAPIKey:  getEnv("BREVO_API_KEY", ""),
		BrevoListID:  getEnvAsInt("BREVO_LIST_ID", 0),
		BrevoBaseURL: getEnv("BREVO_BASE_URL", ""),

		SyncTimeout: getEnvAsDuration("SYNC_TIMEOUT", 15*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "SocialBoost"),
		LeadNotifyEmail:   getEnv("LEAD_NOTIFY_EMAIL", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, dropping empty entries.
func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
