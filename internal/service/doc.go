// Package service implements the business logic layer for the job board API.
//
// Services sit between HTTP handlers and repositories. Each service accepts
// its dependencies as interfaces through a XxxServiceConfig struct, which
// keeps them testable with hand-written mocks.
//
// # Services
//
//   - IngestService: fetches postings from the external source, normalizes
//     them, deduplicates against the store, and inserts what is new
//   - JobService: listing, counting, and per-user bookmarks
//   - AuthService: registration, login, email verification
//   - TokenService: JWT issuance and single-use refresh token rotation
//
// # Error Handling
//
// All service errors are sentinel errors defined in errors.go. Handlers map
// them to RFC 9457 problem responses with errors.Is.
package service
