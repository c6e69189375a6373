package uploads_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/logsift/logsift/internal/uploads"
	"github.com/logsift/logsift/pkg/lifecycle"
	"github.com/logsift/logsift/pkg/storage"
)

type fakeBlob struct {
	data     []byte
	metadata map[string]string
	modified time.Time
}

// fakeStore is an in-memory storage.System for registry tests.
type fakeStore struct {
	mu    sync.Mutex
	blobs map[string]fakeBlob
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: make(map[string]fakeBlob)}
}

func (f *fakeStore) path(container, key string) string {
	return container + "/" + key
}

func (f *fakeStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStore) Upload(ctx context.Context, container, key string, data []byte, opts *storage.UploadOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob := fakeBlob{
		data:     append([]byte(nil), data...),
		modified: time.Now().UTC(),
	}
	if opts != nil && len(opts.Metadata) > 0 {
		blob.metadata = make(map[string]string, len(opts.Metadata))
		for k, v := range opts.Metadata {
			blob.metadata[k] = v
		}
	}

	f.blobs[f.path(container, key)] = blob
	return nil
}

func (f *fakeStore) Download(ctx context.Context, container, key string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob, ok := f.blobs[f.path(container, key)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{Data: blob.data, Metadata: blob.metadata}, nil
}

func (f *fakeStore) GetMetadata(ctx context.Context, container, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob, ok := f.blobs[f.path(container, key)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return blob.metadata, nil
}

func (f *fakeStore) List(ctx context.Context, container string, maxResults int32) ([]storage.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := container + "/"
	keys := make([]string, 0)
	for path := range f.blobs {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix {
			keys = append(keys, path[len(prefix):])
		}
	}
	sort.Strings(keys)

	items := make([]storage.Item, 0, len(keys))
	for _, key := range keys {
		if len(items) >= int(maxResults) {
			break
		}
		blob := f.blobs[prefix+key]
		items = append(items, storage.Item{
			Key:          key,
			Size:         int64(len(blob.data)),
			LastModified: blob.modified,
			Metadata:     blob.metadata,
		})
	}
	return items, nil
}

func (f *fakeStore) Exists(ctx context.Context, container, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.blobs[f.path(container, key)]
	return ok, nil
}

func (f *fakeStore) EnsureContainer(ctx context.Context, container string) error { return nil }

func testConfig() *storage.Config {
	return &storage.Config{
		ConnectionString: "test",
		LogsContainer:    "logs",
		ResultsContainer: "results",
		MaxListSize:      50,
	}
}

func newRegistry(store storage.System) uploads.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return uploads.New(store, testConfig(), logger)
}

func TestIngest(t *testing.T) {
	store := newFakeStore()
	sys := newRegistry(store)

	upload, err := sys.Ingest(context.Background(), []byte("user,ts\nalice,100\n"), "events.csv")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if _, err := uuid.Parse(upload.ID); err != nil {
		t.Errorf("id is not a UUID: %s", upload.ID)
	}
	if upload.Key != upload.ID+".csv" {
		t.Errorf("key: got %s", upload.Key)
	}
	if upload.Size != 18 {
		t.Errorf("size: got %d, want 18", upload.Size)
	}
	if upload.OriginalFilename != "events.csv" {
		t.Errorf("filename: got %s", upload.OriginalFilename)
	}
	if !upload.UploadedAt.Equal(upload.UploadedAt.Truncate(time.Second)) {
		t.Errorf("uploaded_at should have second precision: %v", upload.UploadedAt)
	}

	meta, err := store.GetMetadata(context.Background(), "logs", upload.Key)
	if err != nil {
		t.Fatalf("blob not stored: %v", err)
	}
	if meta[uploads.MetadataOriginalFilename] != "events.csv" {
		t.Errorf("stored filename metadata: got %s", meta[uploads.MetadataOriginalFilename])
	}
	if _, err := time.Parse(time.RFC3339, meta[uploads.MetadataUploadedAt]); err != nil {
		t.Errorf("stored uploaded_at not RFC3339: %s", meta[uploads.MetadataUploadedAt])
	}
}

func TestIngestEmptyData(t *testing.T) {
	store := newFakeStore()
	sys := newRegistry(store)

	_, err := sys.Ingest(context.Background(), nil, "events.csv")
	if !errors.Is(err, uploads.ErrEmptyUpload) {
		t.Fatalf("error: got %v, want ErrEmptyUpload", err)
	}

	if len(store.blobs) != 0 {
		t.Error("empty upload should not be stored")
	}
}

func TestIngestDefaultFilename(t *testing.T) {
	sys := newRegistry(newFakeStore())

	upload, err := sys.Ingest(context.Background(), []byte("a,b\n1,2\n"), "")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if upload.OriginalFilename != "uploaded.csv" {
		t.Errorf("filename: got %s, want uploaded.csv", upload.OriginalFilename)
	}
}

func TestIngestGeneratesUniqueIDs(t *testing.T) {
	sys := newRegistry(newFakeStore())

	first, err := sys.Ingest(context.Background(), []byte("a\n1\n"), "one.csv")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	second, err := sys.Ingest(context.Background(), []byte("a\n1\n"), "two.csv")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("ids should be unique: %s", first.ID)
	}
}

func TestList(t *testing.T) {
	store := newFakeStore()
	sys := newRegistry(store)

	for i := range 3 {
		filename := fmt.Sprintf("events-%d.csv", i)
		if _, err := sys.Ingest(context.Background(), []byte("a,b\n1,2\n"), filename); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	entries, err := sys.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("entries: got %d, want 3", len(entries))
	}

	for _, entry := range entries {
		if entry.ID+".csv" != entry.Key {
			t.Errorf("id should trim suffix: id=%s key=%s", entry.ID, entry.Key)
		}
		if entry.OriginalFilename == "" {
			t.Errorf("entry %s missing original filename", entry.ID)
		}
		if entry.UploadedAt == "" {
			t.Errorf("entry %s missing uploaded_at", entry.ID)
		}
		if entry.Size == 0 {
			t.Errorf("entry %s missing size", entry.ID)
		}
	}
}

func TestListLimit(t *testing.T) {
	sys := newRegistry(newFakeStore())

	for range 5 {
		if _, err := sys.Ingest(context.Background(), []byte("a\n1\n"), "events.csv"); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	entries, err := sys.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("entries: got %d, want 2", len(entries))
	}
}

func TestListEmpty(t *testing.T) {
	sys := newRegistry(newFakeStore())

	entries, err := sys.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List() on empty store error = %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("entries: got %d, want 0", len(entries))
	}
}
