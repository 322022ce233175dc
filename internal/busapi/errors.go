package busapi

import (
	"fmt"
	"net/http"

	"busmap.org/internal/models"
)

// StatusError is returned for any non-2xx reply from the data source.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.StatusCode)
}

// Unwrap lets errors.Is match models.ErrNotFound on a 404.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	return nil
}
