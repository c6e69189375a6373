// Package uploads implements the upload registry for Logsift. It assigns each
// incoming dataset a unique identifier, persists the raw bytes with descriptive
// metadata in blob storage, and lists known uploads. Raw upload bytes are
// immutable once written; analysis only ever reads them.
package uploads

import "time"

// Blob metadata keys stamped at ingestion.
const (
	MetadataOriginalFilename = "original_filename"
	MetadataUploadedAt       = "uploaded_at"
)

// Upload is the registration record returned by Ingest.
type Upload struct {
	ID               string    `json:"id"`
	Key              string    `json:"key"`
	Size             int64     `json:"size"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// Entry describes one known upload in a listing. UploadedAt comes from blob
// metadata and is empty for blobs written outside the registry.
type Entry struct {
	ID               string    `json:"id"`
	Key              string    `json:"key"`
	Size             int64     `json:"size"`
	LastModified     time.Time `json:"last_modified"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	UploadedAt       string    `json:"uploaded_at,omitempty"`
}

// ListResult pairs listed entries with their count.
type ListResult struct {
	Count int     `json:"count"`
	Items []Entry `json:"items"`
}
