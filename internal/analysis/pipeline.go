package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/logsift/logsift/internal/scoring"
	"github.com/logsift/logsift/internal/uploads"
	"github.com/logsift/logsift/pkg/storage"
	"github.com/logsift/logsift/pkg/tabular"
)

type pipeline struct {
	storage storage.System
	scorer  scoring.Scorer
	logs    string
	results string
	logger  *slog.Logger
}

// New creates an analysis system using the given storage configuration's
// containers and the injected scorer.
func New(
	store storage.System,
	scorer scoring.Scorer,
	cfg *storage.Config,
	logger *slog.Logger,
) System {
	return &pipeline{
		storage: store,
		scorer:  scorer,
		logs:    cfg.LogsContainer,
		results: cfg.ResultsContainer,
		logger:  logger.With("system", "analysis"),
	}
}

func (p *pipeline) Handler() *Handler {
	return NewHandler(p, p.logger)
}

func (p *pipeline) Analyze(ctx context.Context, uploadID string) (*RunSummary, error) {
	id, err := normalizeID(uploadID)
	if err != nil {
		return nil, err
	}

	obj, err := p.storage.Download(ctx, p.logs, rawKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, fmt.Errorf("load upload %s: %w", id, err)
	}

	table, err := tabular.Decode(obj.Data)
	if err != nil {
		return nil, fmt.Errorf("decode upload %s: %w", id, err)
	}

	table.Ensure(RequiredColumns...)

	scoredAt := time.Now().UTC().Truncate(time.Second)
	version := p.scorer.Version()
	stamp := scoredAt.Format(time.RFC3339)

	anomalies := 0
	for _, row := range table.Rows {
		result := p.scorer.Score(row)

		row[ColumnAnomalyScore] = strconv.FormatFloat(result.Score, 'f', -1, 64)
		if result.Anomaly {
			row[ColumnIsAnomaly] = "1"
			anomalies++
		} else {
			row[ColumnIsAnomaly] = "0"
		}
		row[ColumnModelVersion] = version
		row[ColumnScoredAt] = stamp
	}

	scored, err := table.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode scored table %s: %w", id, err)
	}

	summary := &RunSummary{
		UploadID:         id,
		Rows:             len(table.Rows),
		Anomalies:        anomalies,
		ModelVersion:     version,
		ScoredAt:         scoredAt,
		OriginalFilename: obj.Metadata[uploads.MetadataOriginalFilename],
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encode summary %s: %w", id, err)
	}

	// The summary write is ordered strictly after the scored table write so a
	// reader that sees a summary is guaranteed a matching or newer table.
	scoredOpts := &storage.UploadOptions{ContentType: "text/csv"}
	if err := p.storage.Upload(ctx, p.results, scoredKey(id), scored, scoredOpts); err != nil {
		return nil, fmt.Errorf("write scored table %s: %w", id, err)
	}

	summaryOpts := &storage.UploadOptions{ContentType: "application/json"}
	if err := p.storage.Upload(ctx, p.results, summaryKey(id), payload, summaryOpts); err != nil {
		return nil, fmt.Errorf("write summary %s: %w", id, err)
	}

	p.logger.Info(
		"analysis complete",
		"id", id,
		"rows", summary.Rows,
		"anomalies", summary.Anomalies,
		"model", version,
	)

	return summary, nil
}

func (p *pipeline) Results(ctx context.Context, uploadID string, limit int) (*Results, error) {
	id, err := normalizeID(uploadID)
	if err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = DefaultResultRows
	}

	var summaryObj, scoredObj *storage.Object

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summaryObj, err = p.storage.Download(gctx, p.results, summaryKey(id))
		return err
	})
	g.Go(func() error {
		var err error
		scoredObj, err = p.storage.Download(gctx, p.results, scoredKey(id))
		return err
	})

	if err := g.Wait(); err != nil {
		// A partially written pair reads the same as never analyzed.
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrResultsNotFound
		}
		return nil, fmt.Errorf("load results %s: %w", id, err)
	}

	var summary RunSummary
	if err := json.Unmarshal(summaryObj.Data, &summary); err != nil {
		return nil, fmt.Errorf("decode summary %s: %w", id, err)
	}

	table, err := tabular.Decode(scoredObj.Data)
	if err != nil {
		return nil, fmt.Errorf("decode scored table %s: %w", id, err)
	}

	rows := table.Rows
	if len(rows) > limit {
		rows = rows[:limit]
	}

	return &Results{
		Summary:      summary,
		RowsReturned: len(rows),
		Rows:         rows,
	}, nil
}

// normalizeID accepts an upload id with or without its raw blob suffix.
func normalizeID(uploadID string) (string, error) {
	id := strings.TrimSuffix(strings.TrimSpace(uploadID), ".csv")
	if id == "" {
		return "", ErrMissingUploadID
	}
	return id, nil
}

func rawKey(id string) string     { return id + ".csv" }
func scoredKey(id string) string  { return "scored/" + id + ".csv" }
func summaryKey(id string) string { return "summary/" + id + ".json" }
