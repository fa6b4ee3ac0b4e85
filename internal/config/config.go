// Package config loads the server settings from the environment.
package config

import (
	"strings"
	"time"

	pkgconfig "github.com/Skotchmaster/marine_shop/pkg/config"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	DatabaseName string

	JWTSecret  string
	JWTTTL     time.Duration
	AdminEmail string

	Port           string
	Env            string
	LogLevel       string
	RequestTimeout time.Duration
	// CORSOrigins enables credentialed CORS for the listed origins.
	CORSOrigins []string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	ContactInbox string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	UploadBucketURL string
}

// Load reads .env when present and then the process environment.
// The returned error reports a missing .env file only; callers log it and
// carry on.
func Load() (*Config, error) {
	envErr := godotenv.Load(".env")

	cfg := &Config{
		DatabaseURL:  pkgconfig.EnvDefault("DATABASE_URL", ""),
		DatabaseName: pkgconfig.EnvDefault("DATABASE_NAME", "marine_shop"),

		JWTSecret:  pkgconfig.EnvDefault("JWT_SECRET", ""),
		JWTTTL:     pkgconfig.EnvDurationDefault("JWT_TTL", 720*time.Hour),
		AdminEmail: strings.ToLower(pkgconfig.EnvDefault("ADMIN_EMAIL", "")),

		Port:           pkgconfig.EnvDefault("SERVER_PORT", "8080"),
		Env:            pkgconfig.EnvDefault("APP_ENV", "production"),
		LogLevel:       pkgconfig.EnvDefault("LOG_LEVEL", "info"),
		RequestTimeout: pkgconfig.EnvDurationDefault("REQUEST_TIMEOUT", 15*time.Second),
		CORSOrigins:    pkgconfig.CSV(pkgconfig.EnvDefault("CORS_ORIGINS", "")),

		SMTPHost:     pkgconfig.EnvDefault("SMTP_HOST", ""),
		SMTPPort:     pkgconfig.EnvIntDefault("SMTP_PORT", 587),
		SMTPUser:     pkgconfig.EnvDefault("SMTP_USER", ""),
		SMTPPassword: pkgconfig.EnvDefault("SMTP_PASSWORD", ""),
		SMTPFrom:     pkgconfig.EnvDefault("SMTP_FROM", ""),
		ContactInbox: pkgconfig.EnvDefault("CONTACT_INBOX", ""),

		KafkaBrokers: pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "")),

		ESURL:      pkgconfig.EnvDefault("ES_URL", ""),
		ESUser:     pkgconfig.EnvDefault("ES_USER", ""),
		ESPassword: pkgconfig.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "catalog"),

		UploadBucketURL: pkgconfig.EnvDefault("UPLOAD_BUCKET_URL", "file:///var/lib/marine_shop/uploads"),
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	if cfg.ContactInbox == "" {
		cfg.ContactInbox = cfg.SMTPFrom
	}
	return cfg, envErr
}

func (c *Config) Validate() error {
	return pkgconfig.Required(map[string]string{
		"DATABASE_URL": c.DatabaseURL,
		"JWT_SECRET":   c.JWTSecret,
	})
}

func (c *Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// MailConfigured reports whether outgoing mail has somewhere to go.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
