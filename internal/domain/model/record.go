// Package model contains domain models passed between layers.
package model

import (
	"cloud.google.com/go/civil"

	"github.com/okian/medbench/internal/domain/benchmark"
)

// RawRecord is one row as read from a source, before validation.
type RawRecord struct {
	Benchmark   string
	Model       string
	Provider    string
	ReleaseDate string // ISO 8601 calendar date
	Score       string
	CI          string // optional half-width of the confidence interval
	Source      string // file path or URL
	Line        int    // 1-based data line, 0 when unknown
}

// Interval is a confidence interval around a score, in the same scale.
type Interval struct {
	Lower float64
	Upper float64
}

// ScoreRecord is one validated measurement. Score is in the benchmark's
// declared source scale.
type ScoreRecord struct {
	Benchmark   benchmark.ID
	Model       string
	Provider    string
	ReleaseDate civil.Date
	Score       float64
	CI          *Interval // nil when the source has no interval
	Source      string
	Line        int
}

// FrontierPoint is one record-setting event. Score is a percentage.
type FrontierPoint struct {
	Benchmark   benchmark.ID `json:"benchmark_id"`
	Model       string       `json:"model_name"`
	Provider    string       `json:"provider,omitempty"`
	ReleaseDate civil.Date   `json:"release_date"`
	Score       float64      `json:"score"`
}
