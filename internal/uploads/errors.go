package uploads

import (
	"errors"
	"net/http"
)

// Domain errors for upload registry operations.
var (
	ErrEmptyUpload  = errors.New("upload is empty")
	ErrMissingFile  = errors.New("no file provided")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// MapHTTPStatus maps upload domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyUpload) || errors.Is(err, ErrMissingFile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
