package jsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	defaultTimeout = 15 * time.Second
)

var (
	// ErrRateLimited indicates the upstream API returned HTTP 429.
	ErrRateLimited = errors.New("job search API rate limited")

	// ErrSourceUnavailable indicates a transport failure or non-2xx response.
	ErrSourceUnavailable = errors.New("job search API unavailable")

	// ErrMalformedResponse indicates the response body could not be decoded.
	ErrMalformedResponse = errors.New("malformed job search API response")
)

// searchVariations rotates the query phrasing across pages so consecutive
// pages surface different result sets from the upstream index.
var searchVariations = []string{
	"%s in %s",
	"%s jobs %s",
	"%s careers %s",
	"%s opportunities %s",
}

// Client talks to the JSearch API on RapidAPI. The zero value is not usable;
// construct with NewClient.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Config holds client settings
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient constructs a client with a shared HTTP client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// RawJob mirrors a single JSearch listing. Fields stay in the upstream shape;
// normalization into the stored model happens in the service layer.
type RawJob struct {
	JobID               string   `json:"job_id"`
	EmployerName        string   `json:"employer_name"`
	EmployerWebsite     string   `json:"employer_website"`
	EmploymentType      string   `json:"job_employment_type"`
	Title               string   `json:"job_title"`
	ApplyLink           string   `json:"job_apply_link"`
	Description         string   `json:"job_description"`
	PostedHumanReadable string   `json:"job_posted_human_readable"`
	PostedAtUTC         string   `json:"job_posted_at_datetime_utc"`
	City                string   `json:"job_city"`
	State               string   `json:"job_state"`
	Country             string   `json:"job_country"`
	RequiredSkills      []string `json:"job_required_skills"`
	Responsibilities    []string `json:"job_responsibilities"`
}

// SearchPage is one page of results. HasMore is false when the upstream
// returned an empty page, which is the pagination stop signal.
type SearchPage struct {
	Jobs    []RawJob
	HasMore bool
}

// searchResponse mirrors the top-level JSearch JSON response.
type searchResponse struct {
	Status string   `json:"status"`
	Data   []RawJob `json:"data"`
}

// Search fetches one page of results for the given query and location.
// Pages are 1-based, matching the upstream API; the page number also
// selects the query variation and is forwarded upstream.
func (c *Client) Search(ctx context.Context, query, location string, page int, datePosted string) (*SearchPage, error) {
	variation := searchVariations[page%len(searchVariations)]
	composed := fmt.Sprintf(variation, query, location)

	params := url.Values{}
	params.Set("query", composed)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	if datePosted != "" {
		params.Set("date_posted", datePosted)
	}

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", hostOf(c.baseURL))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d: %s", ErrSourceUnavailable, resp.StatusCode, truncate(body, 200))
	}

	var apiResp searchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &SearchPage{
		Jobs:    apiResp.Data,
		HasMore: len(apiResp.Data) > 0,
	}, nil
}

func hostOf(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return baseURL
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
