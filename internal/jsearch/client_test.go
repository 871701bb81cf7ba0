package jsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ============================================================================
// Query Composition Tests
// ============================================================================

func TestClient_Search_RotatesQueryVariations(t *testing.T) {
	t.Parallel()

	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		w.Write([]byte(`{"status":"OK","data":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	for page := 1; page <= 4; page++ {
		if _, err := client.Search(context.Background(), "software developer", "United States", page, "today"); err != nil {
			t.Fatalf("search page %d failed: %v", page, err)
		}
	}

	expected := []string{
		"software developer jobs United States",
		"software developer careers United States",
		"software developer opportunities United States",
		"software developer in United States",
	}
	for i, want := range expected {
		if queries[i] != want {
			t.Errorf("page %d: expected query %q, got %q", i+1, want, queries[i])
		}
	}
}

func TestClient_Search_ForwardsPageParam(t *testing.T) {
	t.Parallel()

	var pages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		w.Write([]byte(`{"status":"OK","data":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	for page := 1; page <= 2; page++ {
		if _, err := client.Search(context.Background(), "dev", "PA", page, ""); err != nil {
			t.Fatalf("search page %d failed: %v", page, err)
		}
	}

	if len(pages) != 2 || pages[0] != "1" || pages[1] != "2" {
		t.Errorf("expected upstream page params [1 2], got %v", pages)
	}
}

func TestClient_Search_SetsAuthHeaders(t *testing.T) {
	t.Parallel()

	var gotKey, gotHost string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		w.Write([]byte(`{"status":"OK","data":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.Search(context.Background(), "dev", "PA", 1, ""); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("expected API key header 'test-key', got %q", gotKey)
	}
	if gotHost == "" {
		t.Error("expected host header to be set")
	}
}

// ============================================================================
// Pagination Sentinel Tests
// ============================================================================

func TestClient_Search_NonEmptyPage_HasMore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","data":[{"job_id":"abc123","job_title":"Go Developer","job_city":"Erie","job_state":"PA"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	page, err := client.Search(context.Background(), "dev", "PA", 1, "today")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if !page.HasMore {
		t.Error("expected HasMore=true for non-empty page")
	}
	if len(page.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(page.Jobs))
	}
	if page.Jobs[0].JobID != "abc123" {
		t.Errorf("expected job_id 'abc123', got %q", page.Jobs[0].JobID)
	}
	if page.Jobs[0].Title != "Go Developer" {
		t.Errorf("expected title 'Go Developer', got %q", page.Jobs[0].Title)
	}
}

func TestClient_Search_EmptyPage_NoMore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","data":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	page, err := client.Search(context.Background(), "dev", "PA", 1, "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if page.HasMore {
		t.Error("expected HasMore=false for empty page")
	}
}

// ============================================================================
// Error Taxonomy Tests
// ============================================================================

func TestClient_Search_RateLimited_ReturnsErrRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.Search(context.Background(), "dev", "PA", 1, "")

	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestClient_Search_ServerError_ReturnsErrSourceUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.Search(context.Background(), "dev", "PA", 1, "")

	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestClient_Search_TransportFailure_ReturnsErrSourceUnavailable(t *testing.T) {
	t.Parallel()

	// Point at a closed server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.Search(context.Background(), "dev", "PA", 1, "")

	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestClient_Search_BadJSON_ReturnsErrMalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","data":`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.Search(context.Background(), "dev", "PA", 1, "")

	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}
