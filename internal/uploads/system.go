package uploads

import "context"

// System defines the public contract for upload registry operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Ingest stores raw bytes under a fresh unique id and records the original
	// filename and ingestion timestamp as blob metadata.
	Ingest(ctx context.Context, data []byte, filename string) (*Upload, error)

	// List returns up to limit known uploads in the order the backing store
	// yields them. A non-positive limit applies the configured default.
	List(ctx context.Context, limit int32) ([]Entry, error)
}
