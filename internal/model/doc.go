// Package model defines domain entities and data structures for the job board API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - JobPosting: A normalized job record fetched from the external search API
//   - User: Application user with authentication credentials
//   - SavedJob: Bookmark relating a user to a posting
//   - RefreshToken: Hashed opaque token backing the refresh flow
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type JobPosting struct {
//	    JobID    string `json:"job_id"`
//	    Title    string `json:"title,omitempty"`
//	    Location string `json:"location,omitempty"`
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
