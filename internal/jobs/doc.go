// Package jobs implements background job processing for the OpenBoard API.
//
// The jobs package contains scheduled tasks that run independently of
// HTTP request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - Sweep: Scheduled bulk ingestion across a term/region matrix
//   - TokenCleanup: Expired refresh token removal
//
// # Lifecycle
//
// Jobs expose Start and Stop for use from main, plus RunOnce for
// manual triggering:
//
//	sweep := jobs.NewSweep(ingestService, jobs.SweepConfig{Schedule: "@weekly"})
//	if err := sweep.Start(); err != nil { ... }
//	defer sweep.Stop()
//
// # Error Handling
//
// Jobs log errors but don't crash the application. A failing
// term/region pair is skipped so the rest of the sweep still runs.
package jobs
