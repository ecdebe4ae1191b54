package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized: run 'enrichctl login' or set ENRICH_API_TOKEN")
	ErrNoToken      = errors.New("no API token configured")
	ErrNotFound     = errors.New("not found")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("enrichment API returned status %d", e.StatusCode)
	}
	if e.Code == "" {
		return fmt.Sprintf("enrichment API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("enrichment API returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Is lets errors.Is match ErrUnauthorized to 401 and ErrNotFound to 404.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
