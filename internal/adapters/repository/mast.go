package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/okian/medbench/internal/adapters/fetch"
	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/model"
	"github.com/okian/medbench/pkg/logger"
)

// Column names of the MAST metrics document.
const (
	colTeam      = "team"
	colCondition = "condition"
	colMetric    = "metric"
	colMean      = "mean"
)

// Source returns the body of a remote document.
type Source interface {
	Fetch(ctx context.Context) (fetch.Result, error)
}

// Filter selects the metric rows that make up the MAST leaderboard.
type Filter struct {
	Team      string
	Condition string
	Metric    string
}

// DefaultFilter selects single-model runs in the advisor condition scored on
// the overall metric.
func DefaultFilter() Filter {
	return Filter{Team: "Solo Models", Condition: "Advisor", Metric: "OverallScore"}
}

func (f Filter) match(t *csvTable, row []string) bool {
	return t.cell(row, colTeam) == f.Team &&
		t.cell(row, colCondition) == f.Condition &&
		t.cell(row, colMetric) == f.Metric
}

// MASTLoader joins the published MAST metrics with a curated release-dates
// file keyed on model name.
type MASTLoader struct {
	source    Source
	datesPath string
	filter    Filter
	logger    logger.Logger
}

// NewMASTLoader returns a loader fetching metrics from source and reading
// release dates from datesPath.
func NewMASTLoader(source Source, datesPath string, opts ...MASTOption) *MASTLoader {
	m := &MASTLoader{
		source:    source,
		datesPath: datesPath,
		filter:    DefaultFilter(),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type release struct {
	date     string
	provider string
}

// Load implements Loader. Metric rows whose model has no release date are
// returned with an empty date.
func (m *MASTLoader) Load(ctx context.Context, id benchmark.ID) ([]model.RawRecord, error) {
	const op = "repository.mast.load"

	if id != benchmark.MAST {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownBenchmark, id)
	}

	dates, err := m.releaseDates()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s: %w", op, ErrSourceUnavailable, m.datesPath, err)
	}

	res, err := m.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if res.Stale {
		m.logger.Warn(ctx, "using stale MAST metrics", logger.String("source", res.Source))
	}

	t, err := readCSV(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s: %w", op, ErrSourceUnavailable, res.Source, err)
	}
	if err := t.require(colTeam, colCondition, colMetric, colModel, colMean); err != nil {
		return nil, fmt.Errorf("%s: %w: %s: %w", op, ErrSourceUnavailable, res.Source, err)
	}

	out := make([]model.RawRecord, 0)
	for i, row := range t.rows {
		if !m.filter.match(t, row) {
			continue
		}
		name := t.cell(row, colModel)
		rel := dates[name]
		provider := rel.provider
		if provider == "" {
			provider = t.cell(row, colProvider)
		}
		out = append(out, model.RawRecord{
			Benchmark:   string(benchmark.MAST),
			Model:       name,
			Provider:    provider,
			ReleaseDate: rel.date,
			Score:       t.cell(row, colMean),
			CI:          t.cell(row, colCI),
			Source:      res.Source,
			Line:        i + 1,
		})
	}
	m.logger.Debug(ctx, "loaded MAST metrics",
		logger.String("source", res.Source),
		logger.Int("rows", len(t.rows)),
		logger.Int("selected", len(out)),
		logger.Bool("stale", res.Stale))
	return out, nil
}

func (m *MASTLoader) releaseDates() (map[string]release, error) {
	f, err := os.Open(m.datesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readCSV(f)
	if err != nil {
		return nil, err
	}
	if err := t.require(colModel, colReleaseDate); err != nil {
		return nil, err
	}
	out := make(map[string]release, len(t.rows))
	for _, row := range t.rows {
		name := t.cell(row, colModel)
		if name == "" {
			continue
		}
		out[name] = release{date: t.cell(row, colReleaseDate), provider: t.cell(row, colProvider)}
	}
	return out, nil
}
