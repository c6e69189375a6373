// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/logsift/logsift/pkg/lifecycle"
)

// Item describes one blob in a container listing.
type Item struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Object holds the full content of a downloaded blob alongside its metadata.
type Object struct {
	Data     []byte
	Metadata map[string]string
}

// UploadOptions carries optional blob attributes for Upload.
type UploadOptions struct {
	ContentType string
	Metadata    map[string]string
}

// System manages blob storage operations and lifecycle coordination.
// Containers are selected per call; one System serves a single storage account.
type System interface {
	// Start registers a startup hook that ensures the configured containers exist.
	Start(lc *lifecycle.Coordinator) error
	// Upload writes data to a blob at the given key, overwriting any prior content.
	Upload(ctx context.Context, container, key string, data []byte, opts *UploadOptions) error
	// Download reads the full blob content and its metadata.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, container, key string) (*Object, error)
	// GetMetadata returns the metadata of the blob at the given key.
	// Returns ErrNotFound if the blob does not exist.
	GetMetadata(ctx context.Context, container, key string) (map[string]string, error)
	// List returns up to maxResults blobs from the container in listing order.
	// A missing container yields an empty result, not an error.
	List(ctx context.Context, container string, maxResults int32) ([]Item, error)
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, container, key string) (bool, error)
	// EnsureContainer creates the container if absent. Creation is idempotent;
	// an already-existing container is not observable as an error.
	EnsureContainer(ctx context.Context, container string) error
}

type azure struct {
	client     *azblob.Client
	containers []string
	logger     *slog.Logger
}

// New creates a storage system from the given configuration. It prefers the
// connection string and falls back to the service URL with default Azure
// credentials. No connection is established until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	return &azure{
		client:     client,
		containers: cfg.Containers(),
		logger:     logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		return client, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create storage credential: %w", err)
	}

	client, err := azblob.NewClient(cfg.ServiceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return client, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		for _, container := range a.containers {
			if err := a.EnsureContainer(lc.Context(), container); err != nil {
				a.logger.Error("storage container initialization failed", "container", container, "error", err)
				return
			}
		}

		a.logger.Info("storage containers ready", "containers", a.containers)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, container, key string, data []byte, opts *UploadOptions) error {
	if err := validateKey(key); err != nil {
		return err
	}

	uploadOpts := &azblob.UploadBufferOptions{}
	if opts != nil {
		if opts.ContentType != "" {
			uploadOpts.HTTPHeaders = &blob.HTTPHeaders{
				BlobContentType: &opts.ContentType,
			}
		}
		if len(opts.Metadata) > 0 {
			uploadOpts.Metadata = toBlobMetadata(opts.Metadata)
		}
	}

	_, err := a.client.UploadBuffer(ctx, container, key, data, uploadOpts)
	if err != nil {
		return fmt.Errorf("upload blob %s/%s: %w", container, key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, container, key string) (*Object, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s/%s: %w", container, key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s/%s: %w", container, key, err)
	}

	return &Object{
		Data:     data,
		Metadata: fromBlobMetadata(resp.Metadata),
	}, nil
}

func (a *azure) GetMetadata(ctx context.Context, container, key string) (map[string]string, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.blobClient(container, key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blob metadata %s/%s: %w", container, key, err)
	}

	return fromBlobMetadata(resp.Metadata), nil
}

func (a *azure) List(ctx context.Context, container string, maxResults int32) ([]Item, error) {
	pager := a.client.NewListBlobsFlatPager(container, &azblob.ListBlobsFlatOptions{
		Include:    azblob.ListBlobsInclude{Metadata: true},
		MaxResults: &maxResults,
	})

	items := make([]Item, 0)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				return items, nil
			}
			return nil, fmt.Errorf("list blobs %s: %w", container, err)
		}

		for _, b := range page.Segment.BlobItems {
			item := Item{Metadata: fromBlobMetadata(b.Metadata)}
			if b.Name != nil {
				item.Key = *b.Name
			}
			if b.Properties != nil {
				if b.Properties.ContentLength != nil {
					item.Size = *b.Properties.ContentLength
				}
				if b.Properties.LastModified != nil {
					item.LastModified = *b.Properties.LastModified
				}
			}

			items = append(items, item)
			if len(items) >= int(maxResults) {
				return items, nil
			}
		}
	}

	return items, nil
}

func (a *azure) Exists(ctx context.Context, container, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := a.blobClient(container, key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s/%s: %w", container, key, err)
	}

	return true, nil
}

func (a *azure) EnsureContainer(ctx context.Context, container string) error {
	_, err := a.client.CreateContainer(ctx, container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("ensure container %s: %w", container, err)
	}
	return nil
}

func (a *azure) blobClient(container, key string) *blob.Client {
	return a.client.
		ServiceClient().
		NewContainerClient(container).
		NewBlobClient(key)
}

// Azure normalizes metadata key casing on the wire; keys are lowercased on
// read so lookups match what callers stored.
func fromBlobMetadata(meta map[string]*string) map[string]string {
	if len(meta) == 0 {
		return nil
	}

	result := make(map[string]string, len(meta))
	for k, v := range meta {
		if v != nil {
			result[strings.ToLower(k)] = *v
		}
	}
	return result
}

func toBlobMetadata(meta map[string]string) map[string]*string {
	result := make(map[string]*string, len(meta))
	for k, v := range meta {
		result[strings.ToLower(k)] = to.Ptr(v)
	}
	return result
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
