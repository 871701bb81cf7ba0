// Package jsearch provides a client for the JSearch job search API on
// RapidAPI.
//
// The client fetches one page at a time and reports whether more pages are
// available, leaving pagination, pacing, and retry decisions to the caller.
// Errors are classified into three sentinels so the ingestion pipeline can
// distinguish rate limiting (ErrRateLimited) from outages
// (ErrSourceUnavailable) and broken payloads (ErrMalformedResponse).
package jsearch
