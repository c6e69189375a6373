package analysis

import (
	"errors"
	"net/http"
)

// Domain errors for analysis operations.
var (
	ErrMissingUploadID = errors.New("upload_id is required")
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrUploadNotFound  = errors.New("upload not found")
	ErrResultsNotFound = errors.New("results not found")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingUploadID) || errors.Is(err, ErrInvalidLimit) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUploadNotFound) || errors.Is(err, ErrResultsNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
