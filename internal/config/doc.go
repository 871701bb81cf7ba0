// Package config manages application configuration for the OpenBoard API.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single
// source of truth. A local .env file is honored when present.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - DatabaseConfig: SurrealDB connection settings
//   - JSearchConfig: External job search API settings
//   - JWTConfig: JWT signing and validation settings
//   - SMTPConfig: Outbound verification email settings
//   - RedisConfig: Optional distributed ingest guard
//   - IngestConfig: Ingestion pacing and lock lifetime
//   - SweepConfig: Scheduled bulk ingestion matrix
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT       - HTTP server port (default: 8080)
//	DB_HOST           - SurrealDB host (default: localhost)
//	DB_PORT           - SurrealDB port (default: 8000)
//	RAPIDAPI_KEY      - RapidAPI key for the job search source
//	JWT_ACCESS_SECRET - Access token signing secret
//	JWT_EMAIL_SECRET  - Email verification token signing secret
//	REDIS_URL         - Redis URL, enables the distributed ingest guard
//	SWEEP_SCHEDULE    - Cron spec for the bulk sweep (default: @weekly)
//
// # Default Values
//
// Sensible defaults are provided for development; production requires
// the signing secrets and API key to be set explicitly.
package config
