package bookverse

import (
	"errors"
	"fmt"
	"net/http"
)

// fallbackMessage is shown when a failure carries no server message.
const fallbackMessage = "An error occurred"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoSession        = errors.New("not logged in")
	ErrLoginRequired    = errors.New("login required")
	ErrNoRating         = errors.New("please select a rating")
	ErrReviewNotAllowed = errors.New("admins cannot submit reviews")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrTitleRequired    = errors.New("title is required")
	ErrMissingBookID    = errors.New("missing book id")
	ErrMalformedLogin   = errors.New("login response missing token or user")
)

// NetworkError is a request that never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response. Message is the server-supplied text, if any.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// userMessage picks the text shown to the user for err.
func userMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// failureMessage is userMessage with a separate fallback for API errors that
// carry no message; transport failures always get the generic text.
func failureMessage(err error, apiFallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return userMessage(err, apiFallback)
	}
	return fallbackMessage
}
