package analysis

import "context"

// System defines the public contract for analysis operations.
type System interface {
	Handler() *Handler

	// Analyze scores the upload's rows, writes the scored table and run
	// summary to the results container, and returns the summary.
	Analyze(ctx context.Context, uploadID string) (*RunSummary, error)

	// Results returns the run summary and up to limit scored rows in stored
	// order. A non-positive limit applies DefaultResultRows.
	Results(ctx context.Context, uploadID string, limit int) (*Results, error)
}
