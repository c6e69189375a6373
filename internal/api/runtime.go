package api

import (
	"fmt"

	"github.com/logsift/logsift/internal/config"
	"github.com/logsift/logsift/internal/infrastructure"
	"github.com/logsift/logsift/internal/scoring"
)

// Runtime extends Infrastructure with the configured row scorer.
type Runtime struct {
	*infrastructure.Infrastructure
	Scorer scoring.Scorer
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	scorer, err := scoring.New(&cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("scorer init failed: %w", err)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Storage:   infra.Storage,
		},
		Scorer: scorer,
	}, nil
}
