// Package analysis implements the scoring pipeline and results reader.
// Analyze derives a scored table and a run summary from one upload; Results
// serves the summary plus a bounded page of scored rows. Derived artifacts
// are keyed by upload id and replaced wholesale on re-analysis.
package analysis

import (
	"time"

	"github.com/logsift/logsift/pkg/tabular"
)

// Derived columns added to every scored row.
const (
	ColumnAnomalyScore = "anomaly_score"
	ColumnIsAnomaly    = "is_anomaly"
	ColumnModelVersion = "model_version"
	ColumnScoredAt     = "scored_at"
)

// RequiredColumns lists the derived columns in their fixed append order.
// Columns already present in the source keep their position and have their
// values overwritten by the run.
var RequiredColumns = []string{
	ColumnAnomalyScore,
	ColumnIsAnomaly,
	ColumnModelVersion,
	ColumnScoredAt,
}

// DefaultResultRows bounds Results when no limit is given.
const DefaultResultRows = 200

// RunSummary aggregates one scoring run over one upload. OriginalFilename is
// copied from the source upload at scoring time, not re-resolved on read.
type RunSummary struct {
	UploadID         string    `json:"upload_id"`
	Rows             int       `json:"rows"`
	Anomalies        int       `json:"anomalies"`
	ModelVersion     string    `json:"model_version"`
	ScoredAt         time.Time `json:"scored_at"`
	OriginalFilename string    `json:"original_filename,omitempty"`
}

// Results pairs a run summary with a page of scored rows.
type Results struct {
	Summary      RunSummary    `json:"summary"`
	RowsReturned int           `json:"rows_returned"`
	Rows         []tabular.Row `json:"rows"`
}
