package api

import (
	"github.com/logsift/logsift/internal/analysis"
	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/uploads"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Uploads  uploads.System
	Analysis analysis.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	uploadsSystem := uploads.New(
		runtime.Storage,
		&cfg.Storage,
		runtime.Logger,
	)

	analysisSystem := analysis.New(
		runtime.Storage,
		runtime.Scorer,
		&cfg.Storage,
		runtime.Logger,
	)

	return &Domain{
		Uploads:  uploadsSystem,
		Analysis: analysisSystem,
	}
}
