package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/diagnostics"
)

// Validate converts a raw row into a ScoreRecord. A row that cannot be
// converted yields a diagnostic instead; ok reports which one is set.
func Validate(raw RawRecord) (rec ScoreRecord, diag diagnostics.Diagnostic, ok bool) {
	at := diagnostics.Origin{
		Benchmark: strings.TrimSpace(raw.Benchmark),
		Source:    raw.Source,
		Line:      raw.Line,
		Model:     strings.TrimSpace(raw.Model),
	}

	id, err := benchmark.ParseID(raw.Benchmark)
	if err != nil {
		return ScoreRecord{}, diagnostics.UnknownBenchmark(at, err), false
	}
	at.Benchmark = string(id)

	if at.Model == "" {
		return ScoreRecord{}, diagnostics.Malformed(at, errors.New("missing model name")), false
	}

	date, err := parseDate(raw.ReleaseDate)
	if err != nil {
		return ScoreRecord{}, diagnostics.Malformed(at, err), false
	}

	score, err := parseScore(raw.Score)
	if err != nil {
		return ScoreRecord{}, diagnostics.Malformed(at, err), false
	}

	ci, err := parseCI(raw.Score, raw.CI)
	if err != nil {
		return ScoreRecord{}, diagnostics.Malformed(at, err), false
	}

	return ScoreRecord{
		Benchmark:   id,
		Model:       at.Model,
		Provider:    strings.TrimSpace(raw.Provider),
		ReleaseDate: date,
		Score:       score,
		CI:          ci,
		Source:      raw.Source,
		Line:        raw.Line,
	}, diagnostics.Diagnostic{}, true
}

// ValidateAll validates rows in order, returning the valid records and a
// report with one diagnostic per rejected row.
func ValidateAll(raws []RawRecord) ([]ScoreRecord, *diagnostics.Report) {
	report := &diagnostics.Report{}
	records := make([]ScoreRecord, 0, len(raws))
	for _, raw := range raws {
		rec, diag, ok := Validate(raw)
		if !ok {
			report.Add(diag)
			continue
		}
		records = append(records, rec)
	}
	return records, report
}

func parseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, errors.New("missing release date")
	}
	d, err := civil.ParseDate(s)
	if err != nil || !d.IsValid() {
		return civil.Date{}, fmt.Errorf("invalid release date %q", s)
	}
	return d, nil
}

func parseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing score")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q", s)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("score %q out of range", s)
	}
	return f, nil
}

// parseCI turns a half-width into bounds around score. An empty cell means
// no interval.
func parseCI(score, width string) (*Interval, error) {
	width = strings.TrimSpace(width)
	if width == "" {
		return nil, nil
	}
	w, err := decimal.NewFromString(width)
	if err != nil {
		return nil, fmt.Errorf("invalid ci %q", width)
	}
	if w.IsNegative() {
		return nil, fmt.Errorf("negative ci %q", width)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(score))
	if err != nil {
		return nil, fmt.Errorf("invalid score %q", score)
	}
	lower, _ := d.Sub(w).Float64()
	upper, _ := d.Add(w).Float64()
	if math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return nil, fmt.Errorf("ci %q out of range", width)
	}
	return &Interval{Lower: lower, Upper: upper}, nil
}
