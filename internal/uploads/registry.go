package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logsift/logsift/pkg/storage"
)

const rawSuffix = ".csv"

type registry struct {
	storage   storage.System
	container string
	listSize  int32
	logger    *slog.Logger
}

// New creates an upload registry backed by the logs container of the given
// storage configuration.
func New(store storage.System, cfg *storage.Config, logger *slog.Logger) System {
	return &registry{
		storage:   store,
		container: cfg.LogsContainer,
		listSize:  cfg.MaxListSize,
		logger:    logger.With("system", "uploads"),
	}
}

func (r *registry) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *registry) Ingest(ctx context.Context, data []byte, filename string) (*Upload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	if filename == "" {
		filename = "uploaded.csv"
	}

	id := uuid.NewString()
	key := id + rawSuffix
	uploadedAt := time.Now().UTC().Truncate(time.Second)

	opts := &storage.UploadOptions{
		ContentType: "text/csv",
		Metadata: map[string]string{
			MetadataOriginalFilename: filename,
			MetadataUploadedAt:       uploadedAt.Format(time.RFC3339),
		},
	}

	if err := r.storage.Upload(ctx, r.container, key, data, opts); err != nil {
		return nil, fmt.Errorf("store upload %s: %w", key, err)
	}

	r.logger.Info(
		"upload ingested",
		"id", id,
		"size", len(data),
		"filename", filename,
	)

	return &Upload{
		ID:               id,
		Key:              key,
		Size:             int64(len(data)),
		OriginalFilename: filename,
		UploadedAt:       uploadedAt,
	}, nil
}

func (r *registry) List(ctx context.Context, limit int32) ([]Entry, error) {
	if limit < 1 {
		limit = r.listSize
	}

	items, err := r.storage.List(ctx, r.container, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			ID:               strings.TrimSuffix(item.Key, rawSuffix),
			Key:              item.Key,
			Size:             item.Size,
			LastModified:     item.LastModified,
			OriginalFilename: item.Metadata[MetadataOriginalFilename],
			UploadedAt:       item.Metadata[MetadataUploadedAt],
		})
	}

	return entries, nil
}
