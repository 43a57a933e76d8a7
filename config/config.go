package config

import (
	"os"
	"strconv"
	"time"
)

// Config is loaded once from the environment in main and injected into
// services. Nothing reads process-wide mutable state at request time; the
// maintenance flag is a plain field read per request by the middleware.
type Config struct {
	AppHost string
	AppPort string

	FrontendURL string

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	MailGatewayURL string
	MailFrom       string
	MailFromName   string

	CancellationFee float64

	MaintenanceMode bool
}

// Load reads the configuration from environment variables with the same
// defaults the original deployment used.
func Load() *Config {
	return &Config{
		AppHost:          os.Getenv("APP_HOST"),
		AppPort:          getEnv("APP_PORT", "8080"),
		FrontendURL:      getEnv("FRONTEND_URL", "*"),
		JWTAccessSecret:  os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   getDuration("JWT_EXPIRES_IN", time.Hour),
		RefreshTokenTTL:  getDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		MailGatewayURL:   os.Getenv("MAIL_GATEWAY_URL"),
		MailFrom:         os.Getenv("EMAIL_FROM"),
		MailFromName:     getEnv("EMAIL_FROM_NAME", "Kairo Services"),
		CancellationFee:  getFloat("CANCELLATION_FEE", 1.00),
		MaintenanceMode:  os.Getenv("MAINTENANCE_MODE") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
