package client

import (
	"fmt"
	"net/http"
)

// APIError is a problem document returned by the server.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("duckbin: %d %s", e.Status, e.Title)
	}

	return fmt.Sprintf("duckbin: %d %s: %s", e.Status, e.Title, e.Detail)
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
}

// UserMessage is the text an editor shows for the error: validation
// messages verbatim, everything else as a fixed notice.
func (e *APIError) UserMessage() string {
	switch {
	case e.IsNotFound():
		return "The snippet could not be found. It may have been deleted."
	case e.IsValidation():
		return e.Detail
	case e.Status == http.StatusTooManyRequests:
		return "Too many requests. Please wait a moment and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
