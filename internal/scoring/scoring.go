// Package scoring defines the pluggable row-scoring transform applied by the
// analysis pipeline. Scorers are pure functions over a single row: no side
// effects, no dependence on row order. Swapping implementations must not
// change the pipeline's input/output contract.
package scoring

import (
	"strconv"
	"strings"

	"github.com/logsift/logsift/pkg/tabular"
)

// Result is the classification a scorer produces for one row.
type Result struct {
	Score   float64
	Anomaly bool
}

// Scorer classifies individual rows.
type Scorer interface {
	// Version identifies the scoring logic, stamped on every scored row.
	Version() string
	// Score classifies a single row.
	Score(row tabular.Row) Result
}

// Dummy scores every row as normal with a zero score. It stands in for a
// trained model during development and integration testing.
type Dummy struct{}

func (Dummy) Version() string { return "dummy-v0" }

func (Dummy) Score(tabular.Row) Result { return Result{} }

// Threshold flags rows whose value in Column meets or exceeds Cutoff.
// Missing or non-numeric values score zero and are never anomalous.
type Threshold struct {
	Column string
	Cutoff float64
}

func (t Threshold) Version() string { return "threshold-v1" }

func (t Threshold) Score(row tabular.Row) Result {
	v, err := strconv.ParseFloat(strings.TrimSpace(row[t.Column]), 64)
	if err != nil {
		return Result{}
	}

	return Result{
		Score:   v,
		Anomaly: v >= t.Cutoff,
	}
}
