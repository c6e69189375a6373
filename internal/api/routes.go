package api

import (
	"net/http"

	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Uploads.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analysis.Handler().Routes(),
	)
}
