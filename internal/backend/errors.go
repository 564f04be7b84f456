package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the backend. Message is the server's
// "error" text when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// ParseError is a response whose body does not have the expected shape.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newAPIError extracts the server's message from an error body. The "error"
// field may be a string or a provider object; objects use their "message"
// field when present and are otherwise rendered as compact JSON.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return apiErr
	}

	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		apiErr.Message = strings.TrimSpace(text)
		return apiErr
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &obj); err == nil && obj.Message != "" {
		apiErr.Message = obj.Message
		return apiErr
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, envelope.Error); err == nil && compact.String() != "null" {
		apiErr.Message = compact.String()
	}
	return apiErr
}

// ServerMessage returns the server's text for err when err is an *APIError
// carrying one, else fallback.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
