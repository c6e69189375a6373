package uploads

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/logsift/logsift/pkg/handlers"
	"github.com/logsift/logsift/pkg/routes"
	"github.com/logsift/logsift/pkg/storage"
)

// Handler provides HTTP endpoints for upload registry operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "uploads"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for upload endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/uploads",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Ingest},
		},
	}
}

// Ingest processes a multipart form upload containing an event-log file.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}

	upload, err := h.sys.Ingest(r.Context(), data, header.Filename)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, upload)
}

// List returns known uploads, bounded by the optional limit query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := storage.ParseMaxResults(r.URL.Query().Get("limit"), 0)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	entries, err := h.sys.List(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ListResult{
		Count: len(entries),
		Items: entries,
	})
}
