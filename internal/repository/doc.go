// Package repository implements the data access layer for the job board API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles CRUD operations for a specific domain entity.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, List, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//   - IN $ids for batched existence checks
//
// # Example Usage
//
//	repo := NewJobRepository(db)
//	existing, err := repo.FilterExistingIDs(ctx, ids)
//	if err != nil {
//	    return err
//	}
package repository
