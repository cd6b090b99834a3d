// Package service runs the benchmark frontier pipeline and keeps the last
// result for readers such as the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/okian/medbench/internal/adapters/render"
	"github.com/okian/medbench/internal/adapters/repository"
	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/diagnostics"
	"github.com/okian/medbench/internal/domain/frontier"
	"github.com/okian/medbench/internal/domain/model"
	"github.com/okian/medbench/internal/domain/presentation"
	"github.com/okian/medbench/pkg/logger"
	"github.com/okian/medbench/pkg/metrics"
)

// Run outcomes as recorded in metrics.
const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"
	outcomeFailed   = "failed"
)

// Exporter writes chart artifacts for a set of series.
type Exporter interface {
	Export(ctx context.Context, series []presentation.Series, dir, base string) ([]render.Artifact, error)
}

// Result is the outcome of one pipeline run.
type Result struct {
	RunID       string                                 `json:"run_id"`
	StartedAt   time.Time                              `json:"started_at"`
	FinishedAt  time.Time                              `json:"finished_at"`
	Records     map[benchmark.ID]int                   `json:"records"`
	Frontiers   map[benchmark.ID][]model.FrontierPoint `json:"frontiers"`
	Series      []presentation.Series                  `json:"series"`
	Diagnostics *diagnostics.Report                    `json:"diagnostics"`
	Artifacts   []render.Artifact                      `json:"artifacts,omitempty"`
}

// Service composes loading, validation, extraction and presentation.
type Service struct {
	mu    sync.RWMutex
	runMu sync.Mutex

	// Core components
	table     benchmark.Table
	loader    repository.Loader
	extractor *frontier.Extractor
	exporter  Exporter

	// Configuration
	dataDir    string
	outputDir  string
	outputBase string

	// State
	last       *Result
	lastReport *diagnostics.Report
	lastErr    error
	runs       int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTable sets the benchmark table.
func WithTable(t benchmark.Table) Option {
	return func(s *Service) {
		s.table = t
	}
}

// WithLoader sets the source of raw rows, usually a repository.Registry.
func WithLoader(l repository.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithDataDir sets the directory of the default CSV loader.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithExporter enables artifact export after each successful run.
func WithExporter(e Exporter) Option {
	return func(s *Service) {
		s.exporter = e
	}
}

// WithOutput sets the artifact directory and file name stem.
func WithOutput(dir, base string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
		if base != "" {
			s.outputBase = base
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service. Without WithLoader every benchmark is read from
// CSV files under the data directory.
func New(opts ...Option) *Service {
	s := &Service{
		table:      benchmark.DefaultTable(),
		dataDir:    "data",
		outputDir:  "output",
		outputBase: "healthcare_ai_benchmarks",
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		csv := repository.NewCSVLoader(s.dataDir, s.table, repository.WithCSVLogger(s.logger))
		s.loader = repository.NewDefaultRegistry(s.table, csv, nil)
	}
	s.extractor = frontier.NewExtractor(s.table)
	return s
}

// Table returns the benchmark table the service was built with.
func (s *Service) Table() benchmark.Table { return s.table }

// Run executes the pipeline once. Per-record and per-benchmark problems are
// collected in the result's diagnostics; Run fails only when no benchmark has
// a valid record, when export fails, or when ctx ends. The result is returned
// alongside ErrNothingToRender so callers can still report diagnostics.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	const op = "service.run"

	s.runMu.Lock()
	defer s.runMu.Unlock()

	res := &Result{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now(),
		Records:     make(map[benchmark.ID]int),
		Diagnostics: &diagnostics.Report{},
	}
	log := s.logger.With(logger.String("run_id", res.RunID))
	log.Info(ctx, "run started", logger.Int("benchmarks", len(s.table.IDs())))

	var records []model.ScoreRecord
	for _, id := range s.table.IDs() {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(ctx, op, err)
		}
		raws, err := s.loader.Load(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, s.fail(ctx, op, ctx.Err())
			}
			res.Diagnostics.Add(loadDiagnostic(id, err))
			log.Warn(ctx, "source unavailable", logger.String("benchmark", string(id)), logger.Error(err))
			continue
		}
		valid, report := model.ValidateAll(raws)
		res.Diagnostics.Merge(report)
		records = append(records, valid...)
	}

	groups := frontier.Partition(records)
	for id, group := range groups {
		res.Records[id] = len(group)
	}
	total := 0
	for _, id := range s.table.IDs() {
		n := res.Records[id]
		metrics.RecordRecordsLoaded(string(id), n)
		if n == 0 {
			res.Diagnostics.Add(diagnostics.EmptyBenchmark(string(id)))
		}
		total += n
	}
	for _, d := range res.Diagnostics.Items() {
		metrics.RecordDiagnostic(d.Benchmark, string(d.Kind))
	}

	if total == 0 {
		res.FinishedAt = time.Now()
		err := fmt.Errorf("%s: %w: %w", op, ErrNothingToRender, res.Diagnostics.Err())
		s.record(res, err)
		metrics.RecordRun(outcomeFailed, ms(res))
		log.Error(ctx, "nothing to render", logger.Int("diagnostics", res.Diagnostics.Len()))
		return res, err
	}

	res.Frontiers = s.extractor.Extract(records)
	res.Series = presentation.BuildAll(res.Frontiers, s.table)
	presentation.AttachRecords(res.Series, groups, s.table)
	for _, srs := range res.Series {
		sota, _ := srs.SOTA()
		metrics.UpdateFrontier(string(srs.Benchmark), len(srs.Points), sota.ScorePercent)
	}

	if s.exporter != nil {
		artifacts, err := s.exporter.Export(ctx, res.Series, s.outputDir, s.outputBase)
		res.Artifacts = artifacts
		if err != nil {
			res.FinishedAt = time.Now()
			err = fmt.Errorf("%s: %w: %w", op, ErrExport, err)
			s.record(res, err)
			metrics.RecordRun(outcomeFailed, ms(res))
			return res, err
		}
	}

	res.FinishedAt = time.Now()
	s.record(res, nil)
	outcome := outcomeOK
	if res.Diagnostics.Len() > 0 {
		outcome = outcomeDegraded
	}
	metrics.RecordRun(outcome, ms(res))
	log.Info(ctx, "run finished",
		logger.Int("records", total),
		logger.Int("diagnostics", res.Diagnostics.Len()),
		logger.Int("artifacts", len(res.Artifacts)),
		logger.Duration("took", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

func loadDiagnostic(id benchmark.ID, err error) diagnostics.Diagnostic {
	if errors.Is(err, repository.ErrUnknownBenchmark) {
		return diagnostics.UnknownBenchmark(diagnostics.Origin{Benchmark: string(id)}, err)
	}
	return diagnostics.SourceUnavailable(string(id), "", err)
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	metrics.RecordRun(outcomeFailed, 0)
	s.logger.Warn(ctx, "run aborted", logger.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) record(res *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastErr = err
	s.lastReport = res.Diagnostics
	if err == nil || errors.Is(err, ErrExport) {
		s.last = res
	}
}

func ms(res *Result) float64 {
	return float64(res.FinishedAt.Sub(res.StartedAt).Milliseconds())
}

// Last returns the most recent renderable result.
func (s *Service) Last() (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.last != nil
}

// Series returns the presentation series of the most recent renderable result.
func (s *Service) Series() ([]presentation.Series, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, false
	}
	return s.last.Series, true
}

// Diagnostics returns the report of the most recent completed run, including
// runs that had nothing to render.
func (s *Service) Diagnostics() (*diagnostics.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport, s.lastReport != nil
}

// Refresh runs the pipeline and discards the result; readers pick it up
// through Series and Diagnostics.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.Run(ctx)
	return err
}

// LastError returns the error of the most recent run, nil on success.
func (s *Service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// SOTA is the current state-of-the-art entry of one benchmark.
type SOTA struct {
	Model        string     `json:"model_name"`
	Provider     string     `json:"provider,omitempty"`
	Date         civil.Date `json:"date"`
	ScorePercent float64    `json:"score_percent"`
}

// Stats is a snapshot of the service state for monitoring.
type Stats struct {
	Runs           int                   `json:"runs"`
	Benchmarks     int                   `json:"benchmarks"`
	HasResult      bool                  `json:"has_result"`
	LastError      string                `json:"last_error,omitempty"`
	LastRunID      string                `json:"last_run_id,omitempty"`
	LastRunAt      *time.Time            `json:"last_run_at,omitempty"`
	Diagnostics    int                   `json:"diagnostics"`
	FrontierPoints map[benchmark.ID]int  `json:"frontier_points"`
	CurrentSOTA    map[benchmark.ID]SOTA `json:"current_sota"`
}

// Stats returns a snapshot of the service state. The maps are never nil.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Runs:           s.runs,
		Benchmarks:     len(s.table.IDs()),
		HasResult:      s.last != nil,
		FrontierPoints: map[benchmark.ID]int{},
		CurrentSOTA:    map[benchmark.ID]SOTA{},
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.last == nil {
		return st
	}
	at := s.last.FinishedAt
	st.LastRunID = s.last.RunID
	st.LastRunAt = &at
	st.Diagnostics = s.last.Diagnostics.Len()
	for _, srs := range s.last.Series {
		st.FrontierPoints[srs.Benchmark] = len(srs.Points)
		if p, ok := srs.SOTA(); ok {
			st.CurrentSOTA[srs.Benchmark] = SOTA{
				Model:        p.Model,
				Provider:     p.Provider,
				Date:         p.Date,
				ScorePercent: p.ScorePercent,
			}
		}
	}
	return st
}
