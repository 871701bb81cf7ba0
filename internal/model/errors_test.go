package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ============================================================================
// Error() Interface Tests
// ============================================================================

func TestProblemDetails_Error_ReturnsFormattedMessage(t *testing.T) {
	t.Parallel()

	pd := &ProblemDetails{
		Status: http.StatusNotFound,
		Title:  "Not Found",
		Detail: "User not found",
	}

	errMsg := pd.Error()

	if !strings.Contains(errMsg, "404") {
		t.Errorf("error message should contain status code, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "Not Found") {
		t.Errorf("error message should contain title, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "User not found") {
		t.Errorf("error message should contain detail, got: %s", errMsg)
	}
}

// ============================================================================
// WriteJSON Tests
// ============================================================================

func TestProblemDetails_WriteJSON_SetsContentType(t *testing.T) {
	t.Parallel()

	pd := NewNotFoundError("resource")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	contentType := rr.Header().Get("Content-Type")
	if contentType != "application/problem+json" {
		t.Errorf("expected Content-Type 'application/problem+json', got %q", contentType)
	}
}

func TestProblemDetails_WriteJSON_SetsStatusCode(t *testing.T) {
	t.Parallel()

	pd := NewConflictError("job already saved")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}
}

func TestProblemDetails_WriteJSON_EncodesBody(t *testing.T) {
	t.Parallel()

	pd := NewBadRequestError("invalid input")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	var result ProblemDetails
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if result.Title != "Bad Request" {
		t.Errorf("expected title 'Bad Request', got %q", result.Title)
	}
	if result.Detail != "invalid input" {
		t.Errorf("expected detail 'invalid input', got %q", result.Detail)
	}
}

// ============================================================================
// Constructor Tests
// ============================================================================

func TestNewUnauthorizedError_ReturnsCorrectValues(t *testing.T) {
	t.Parallel()

	pd := NewUnauthorizedError("token expired")

	if pd.Status != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, pd.Status)
	}
	if pd.Title != "Unauthorized" {
		t.Errorf("expected title 'Unauthorized', got %q", pd.Title)
	}
	if pd.Detail != "token expired" {
		t.Errorf("expected detail 'token expired', got %q", pd.Detail)
	}
	if pd.Code != ErrCodeUnauthorized {
		t.Errorf("expected code %d, got %d", ErrCodeUnauthorized, pd.Code)
	}
	if !strings.Contains(pd.Type, "unauthorized") {
		t.Errorf("expected type to contain 'unauthorized', got %q", pd.Type)
	}
}

func TestNewNotFoundError_FormatsResourceName(t *testing.T) {
	t.Parallel()

	pd := NewNotFoundError("job")

	if pd.Status != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, pd.Status)
	}
	if !strings.Contains(pd.Detail, "job") {
		t.Errorf("detail should contain resource name, got %q", pd.Detail)
	}
	if !strings.Contains(pd.Detail, "not found") {
		t.Errorf("detail should contain 'not found', got %q", pd.Detail)
	}
}

func TestNewValidationError_SingleField_ReturnsCorrectValues(t *testing.T) {
	t.Parallel()

	errors := []FieldError{
		{Field: "email", Message: "invalid format"},
	}
	pd := NewValidationError(errors)

	if pd.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, pd.Status)
	}
	if pd.Code != ErrCodeValidation {
		t.Errorf("expected code %d, got %d", ErrCodeValidation, pd.Code)
	}
	if len(pd.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(pd.Errors))
	}
	if !strings.Contains(pd.Detail, "email") {
		t.Errorf("detail should contain field name, got %q", pd.Detail)
	}
}

func TestNewValidationError_MultipleFields_SummarizesCount(t *testing.T) {
	t.Parallel()

	errors := []FieldError{
		{Field: "email", Message: "required"},
		{Field: "password", Message: "too short"},
		{Field: "firstname", Message: "required"},
	}
	pd := NewValidationError(errors)

	if len(pd.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d", len(pd.Errors))
	}
	if !strings.Contains(pd.Detail, "2 more errors") {
		t.Errorf("detail should mention count of additional errors, got %q", pd.Detail)
	}
}

func TestNewValidationError_EmptyErrors_ReturnsDefaultMessage(t *testing.T) {
	t.Parallel()

	pd := NewValidationError([]FieldError{})

	if pd.Detail != "One or more fields failed validation" {
		t.Errorf("expected default detail message, got %q", pd.Detail)
	}
}

func TestNewConflictError_ReturnsCorrectValues(t *testing.T) {
	t.Parallel()

	pd := NewConflictError("email already in use")

	if pd.Status != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, pd.Status)
	}
	if pd.Detail != "email already in use" {
		t.Errorf("expected detail 'email already in use', got %q", pd.Detail)
	}
	if pd.Code != ErrCodeConflict {
		t.Errorf("expected code %d, got %d", ErrCodeConflict, pd.Code)
	}
}

func TestNewInternalError_EmptyDetail_UsesDefault(t *testing.T) {
	t.Parallel()

	pd := NewInternalError("")

	if pd.Detail != "An unexpected error occurred" {
		t.Errorf("expected default detail message, got %q", pd.Detail)
	}
}

func TestNewRateLimitError_ReturnsCorrectValues(t *testing.T) {
	t.Parallel()

	pd := NewRateLimitError(60)

	if pd.Status != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, pd.Status)
	}
	if !strings.Contains(pd.Detail, "60") {
		t.Errorf("detail should contain retry seconds, got %q", pd.Detail)
	}
}

// ============================================================================
// JSON Serialization Tests
// ============================================================================

func TestProblemDetails_JSON_OmitsEmptyFields(t *testing.T) {
	t.Parallel()

	pd := &ProblemDetails{
		Type:   "test",
		Title:  "Test",
		Status: 400,
	}

	data, err := json.Marshal(pd)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	jsonStr := string(data)
	if strings.Contains(jsonStr, "detail") {
		t.Error("empty detail should be omitted from JSON")
	}
	if strings.Contains(jsonStr, "instance") {
		t.Error("empty instance should be omitted from JSON")
	}
	if strings.Contains(jsonStr, "errors") {
		t.Error("empty errors should be omitted from JSON")
	}
}
