package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB implements the Database interface for SurrealDB
type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

// NewSurrealDB creates a new SurrealDB instance
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{
		config: cfg,
	}
}

// Connect establishes a connection to SurrealDB
func (s *SurrealDB) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SurrealDB) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	_, err := s.db.Version(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// EnsureSchema defines the tables and unique indexes the board relies on.
// The unique index on job.job_id is the deduplication invariant for the
// ingestion pipeline; user.email and the saved_job pair index back the
// auth and bookmarking surfaces. Statements are idempotent.
func (s *SurrealDB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`DEFINE TABLE IF NOT EXISTS job SCHEMALESS`,
		`DEFINE INDEX IF NOT EXISTS job_id_unique ON TABLE job COLUMNS job_id UNIQUE`,
		`DEFINE TABLE IF NOT EXISTS user SCHEMALESS`,
		`DEFINE INDEX IF NOT EXISTS user_email_unique ON TABLE user COLUMNS email UNIQUE`,
		`DEFINE TABLE IF NOT EXISTS saved_job SCHEMALESS`,
		`DEFINE INDEX IF NOT EXISTS saved_job_unique ON TABLE saved_job COLUMNS user, job_id UNIQUE`,
		`DEFINE TABLE IF NOT EXISTS refresh_token SCHEMALESS`,
		`DEFINE INDEX IF NOT EXISTS refresh_token_hash ON TABLE refresh_token COLUMNS token_hash`,
	}

	for _, stmt := range statements {
		if err := s.Execute(ctx, stmt, nil); err != nil {
			return fmt.Errorf("schema definition failed: %w", err)
		}
	}
	return nil
}

// Query executes a query and returns results
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		if isIndexViolation(err.Error()) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	if results == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*results))
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				if isIndexViolation(r.Error.Message) {
					return nil, fmt.Errorf("%w: %s", ErrDuplicate, r.Error.Message)
				}
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		output = append(output, map[string]interface{}{
			"status": r.Status,
			"result": r.Result,
		})
	}

	return output, nil
}

// QueryOne executes a query and returns a single result
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	// Unwrap the response wrapper {status: "OK", result: [...]}
	first := results[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, ErrNotFound
				}
				return resultData[0], nil
			}
			// Result is not an array, return as-is (e.g., scalar values)
			return resp["result"], nil
		}
	}

	return first, nil
}

// Execute runs a query without returning results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

// isIndexViolation recognizes SurrealDB's unique index violation message so
// it can be surfaced as ErrDuplicate rather than a generic query error.
func isIndexViolation(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "already contains") && strings.Contains(lower, "index")
}
