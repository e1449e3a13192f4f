package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr string
	DBDSN    string

	// Minimum available balance before a creator may request a payout.
	MinPayoutCents int64

	// Shared secret for provider callback signatures. Empty disables
	// verification (local dev).
	WebhookSecret string

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // "", "starttls", "tls"
	SkipVerifyTLS bool
	FromName      string
	FromAddr      string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DBDSN:          os.Getenv("DB_DSN"),
		MinPayoutCents: envInt64("MIN_PAYOUT_CENTS", 5000),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		SMTP: SMTPConfig{
			Host:          os.Getenv("SMTP_HOST"),
			Port:          envOr("SMTP_PORT", "1025"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       os.Getenv("SMTP_TLS_MODE"),
			SkipVerifyTLS: os.Getenv("SMTP_SKIP_VERIFY_TLS") == "1",
			FromName:      envOr("MAIL_FROM_NAME", "Printora"),
			FromAddr:      envOr("MAIL_FROM_ADDR", "no-reply@printora.local"),
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
