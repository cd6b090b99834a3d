// Package frontier derives the record-setting progression of benchmark scores.
//
// A frontier is built by walking a benchmark's records in chronological order
// and keeping only those that strictly beat the best score seen so far.
package frontier

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/model"
)

var hundred = decimal.NewFromInt(100)

// Frontier returns the frontier of a single-benchmark batch, scaled to percent.
//
// Records whose Benchmark differs from id are ignored; use Partition or
// Extractor.Extract for mixed input. Records are ordered by release date;
// records sharing a date are ordered by score descending, then model name,
// then input order, so at most one point is emitted per date and it is the
// best score of that date. Non-finite scores never enter a frontier. The
// input slice is not modified.
func Frontier(id benchmark.ID, scale benchmark.Scale, records []model.ScoreRecord) []model.FrontierPoint {
	batch := make([]model.ScoreRecord, 0, len(records))
	for _, r := range records {
		if r.Benchmark == id {
			batch = append(batch, r)
		}
	}
	slices.SortStableFunc(batch, compareRecords)

	points := make([]model.FrontierPoint, 0)
	best := math.Inf(-1)
	for _, r := range batch {
		if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) || r.Score <= best {
			continue
		}
		best = r.Score
		points = append(points, model.FrontierPoint{
			Benchmark:   id,
			Model:       r.Model,
			Provider:    r.Provider,
			ReleaseDate: r.ReleaseDate,
			Score:       ToPercent(scale, r.Score),
		})
	}
	return points
}

func compareRecords(a, b model.ScoreRecord) int {
	if a.ReleaseDate.Before(b.ReleaseDate) {
		return -1
	}
	if a.ReleaseDate.After(b.ReleaseDate) {
		return 1
	}
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return strings.Compare(a.Model, b.Model)
}

// ToPercent converts a source score to a percentage using the declared scale.
func ToPercent(scale benchmark.Scale, score float64) float64 {
	if scale != benchmark.ScaleFraction {
		return score
	}
	f, _ := decimal.NewFromFloat(score).Mul(hundred).Float64()
	return f
}

// Partition groups records by benchmark, preserving input order within each group.
func Partition(records []model.ScoreRecord) map[benchmark.ID][]model.ScoreRecord {
	out := make(map[benchmark.ID][]model.ScoreRecord)
	for _, r := range records {
		out[r.Benchmark] = append(out[r.Benchmark], r)
	}
	return out
}

// Extractor computes frontiers for every benchmark of a table.
type Extractor struct {
	table benchmark.Table
}

// NewExtractor returns an Extractor using the scales declared in table.
func NewExtractor(table benchmark.Table) *Extractor {
	return &Extractor{table: table}
}

// Extract partitions records and returns one frontier per table benchmark.
// Benchmarks without records map to an empty frontier; records of
// benchmarks missing from the table are ignored.
func (e *Extractor) Extract(records []model.ScoreRecord) map[benchmark.ID][]model.FrontierPoint {
	groups := Partition(records)
	out := make(map[benchmark.ID][]model.FrontierPoint, len(e.table.IDs()))
	for _, def := range e.table.Definitions() {
		out[def.ID] = Frontier(def.ID, def.Scale, groups[def.ID])
	}
	return out
}

// Benchmark returns the frontier of one benchmark using its declared scale.
func (e *Extractor) Benchmark(id benchmark.ID, records []model.ScoreRecord) []model.FrontierPoint {
	def, ok := e.table.Get(id)
	if !ok {
		return []model.FrontierPoint{}
	}
	return Frontier(id, def.Scale, records)
}
