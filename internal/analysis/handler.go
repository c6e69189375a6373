package analysis

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/logsift/logsift/pkg/handlers"
	"github.com/logsift/logsift/pkg/routes"
)

// Handler provides HTTP endpoints for analysis operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analysis",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Analyze},
			{Method: "GET", Pattern: "/results", Handler: h.Results},
		},
	}
}

// Analyze runs the scoring pipeline for the upload_id query parameter.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sys.Analyze(r.Context(), r.URL.Query().Get("upload_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Results returns the run summary and a bounded page of scored rows.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidLimit)
			return
		}
		limit = n
	}

	results, err := h.sys.Results(r.Context(), r.URL.Query().Get("upload_id"), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}
