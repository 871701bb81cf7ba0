package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JSearch  JSearchConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
	Ingest   IngestConfig
	Sweep    SweepConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JSearchConfig holds settings for the external job search API
type JSearchConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	AccessSecret   string
	EmailSecret    string
	Issuer         string
	ExpirationMins int
}

// SMTPConfig holds outbound email settings
type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	From          string
	VerifyBaseURL string
}

// RedisConfig holds settings for the optional distributed ingest guard
type RedisConfig struct {
	URL string
}

// IngestConfig holds ingestion pipeline settings
type IngestConfig struct {
	Pace     time.Duration // delay enforced between external API calls
	GuardTTL time.Duration // advisory lock lifetime per (query, location)
}

// SweepConfig holds the weekly bulk ingestion settings
type SweepConfig struct {
	Enabled     bool
	Schedule    string // cron spec, e.g. "@weekly"
	Terms       []string
	Regions     []string
	MaxPages    int
	MaxAPICalls int // 0 = no global budget
}

// Default sweep matrix, taken from the searches the board was seeded with.
var (
	defaultSweepTerms   = []string{"jobs", "careers", "flexible schedule", "competitive salary"}
	defaultSweepRegions = []string{"Allentown", "Erie", "Reading", "Scranton", "Lancaster", "Nevada", "Minnesota", "Wisconsin", "Missouri", "Indiana"}
)

// Load reads configuration from environment variables with sensible defaults.
// A local .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "openboard"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		JSearch: JSearchConfig{
			APIKey:  getEnv("RAPIDAPI_KEY", ""),
			BaseURL: getEnv("JSEARCH_BASE_URL", "https://jsearch.p.rapidapi.com"),
			Timeout: getDurationEnv("JSEARCH_TIMEOUT", 15*time.Second),
		},
		JWT: JWTConfig{
			AccessSecret:   getEnv("JWT_ACCESS_SECRET", ""),
			EmailSecret:    getEnv("JWT_EMAIL_SECRET", ""),
			Issuer:         getEnv("JWT_ISSUER", "openboard"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 60),
		},
		SMTP: SMTPConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getIntEnv("SMTP_PORT", 465),
			User:          getEnv("SMTP_USER", ""),
			Password:      getEnv("SMTP_PASS", ""),
			From:          getEnv("SMTP_FROM", ""),
			VerifyBaseURL: getEnv("EMAIL_VERIFY_BASE_URL", "http://localhost:8080"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Ingest: IngestConfig{
			Pace:     getDurationEnv("INGEST_PACE", time.Second),
			GuardTTL: getDurationEnv("INGEST_GUARD_TTL", 10*time.Minute),
		},
		Sweep: SweepConfig{
			Enabled:     getBoolEnv("SWEEP_ENABLED", true),
			Schedule:    getEnv("SWEEP_SCHEDULE", "@weekly"),
			Terms:       getSliceEnv("SWEEP_TERMS", defaultSweepTerms),
			Regions:     getSliceEnv("SWEEP_REGIONS", defaultSweepRegions),
			MaxPages:    getIntEnv("SWEEP_MAX_PAGES", 5),
			MaxAPICalls: getIntEnv("SWEEP_MAX_API_CALLS", 0),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// Secrets are critical in production; development falls back to
	// generated values so the server can run without a full .env.
	if c.IsProduction() {
		if c.JWT.AccessSecret == "" {
			errs = append(errs, errors.New("JWT_ACCESS_SECRET is required in production"))
		}
		if c.JWT.EmailSecret == "" {
			errs = append(errs, errors.New("JWT_EMAIL_SECRET is required in production"))
		}
		if c.JSearch.APIKey == "" {
			errs = append(errs, errors.New("RAPIDAPI_KEY is required in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if c.SMTP.IsConfigured() {
		if err := c.SMTP.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("SMTP: %w", err))
		}
	}

	if c.Ingest.Pace <= 0 {
		errs = append(errs, errors.New("INGEST_PACE must be positive"))
	}
	if c.Ingest.GuardTTL <= 0 {
		errs = append(errs, errors.New("INGEST_GUARD_TTL must be positive"))
	}

	if c.Sweep.Enabled {
		if c.Sweep.Schedule == "" {
			errs = append(errs, errors.New("SWEEP_SCHEDULE is required when SWEEP_ENABLED is true"))
		}
		if len(c.Sweep.Terms) == 0 {
			errs = append(errs, errors.New("SWEEP_TERMS must have at least one term"))
		}
		if len(c.Sweep.Regions) == 0 {
			errs = append(errs, errors.New("SWEEP_REGIONS must have at least one region"))
		}
		if c.Sweep.MaxPages < 1 {
			errs = append(errs, errors.New("SWEEP_MAX_PAGES must be at least 1"))
		}
		if c.Sweep.MaxAPICalls < 0 {
			errs = append(errs, errors.New("SWEEP_MAX_API_CALLS must not be negative"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IsConfigured returns true if any SMTP field is set
func (s SMTPConfig) IsConfigured() bool {
	return s.Host != "" || s.User != "" || s.Password != "" || s.From != ""
}

// Validate checks that all required SMTP fields are present
func (s SMTPConfig) Validate() error {
	var missing []string
	if s.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if s.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if s.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if s.From == "" {
		missing = append(missing, "SMTP_FROM")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
