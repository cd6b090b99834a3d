// Package presentation maps frontiers to chart-ready series.
package presentation

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/frontier"
	"github.com/okian/medbench/internal/domain/model"
)

// SOTAMarker is appended to the label of the last frontier point.
const SOTAMarker = "⭐ current SOTA"

// TopAnnotated is the number of highest-scoring records labelled on a
// per-benchmark chart.
const TopAnnotated = 5

// Point is one rendered frontier point.
type Point struct {
	Date          civil.Date `json:"date"`
	ScorePercent  float64    `json:"score_percent"`
	Model         string     `json:"model_name"`
	Provider      string     `json:"provider,omitempty"`
	Label         string     `json:"label"`
	IsCurrentSOTA bool       `json:"is_current_sota"`
}

// Observation is one validated record of a benchmark, in percent.
type Observation struct {
	Date         civil.Date `json:"date"`
	ScorePercent float64    `json:"score_percent"`
	Model        string     `json:"model_name"`
	Provider     string     `json:"provider,omitempty"`
	Lower        *float64   `json:"ci_lower,omitempty"`
	Upper        *float64   `json:"ci_upper,omitempty"`
	Annotated    bool       `json:"annotated"`
}

// Trend is the least-squares line through a benchmark's records, given by
// its value at the earliest and latest release dates.
type Trend struct {
	From      civil.Date `json:"from"`
	To        civil.Date `json:"to"`
	FromScore float64    `json:"from_score"`
	ToScore   float64    `json:"to_score"`
}

// Series is the drawable frontier of one benchmark together with every
// record it was derived from.
type Series struct {
	Benchmark  benchmark.ID  `json:"benchmark_id"`
	Name       string        `json:"name"`
	FullName   string        `json:"full_name,omitempty"`
	Color      string        `json:"color"`
	YAxisTitle string        `json:"y_axis_title,omitempty"`
	Points     []Point       `json:"points"`
	Records    []Observation `json:"records"`
	Trend      *Trend        `json:"trend,omitempty"`
}

// Empty reports whether the series has no points.
func (s Series) Empty() bool { return len(s.Points) == 0 }

// SOTA returns the current state-of-the-art point.
func (s Series) SOTA() (Point, bool) {
	if s.Empty() {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Build maps a frontier to a series styled by def. Only the last point is
// marked as the current SOTA.
func Build(points []model.FrontierPoint, def benchmark.Definition) Series {
	s := Series{
		Benchmark:  def.ID,
		Name:       def.Name,
		FullName:   def.FullName,
		Color:      def.Color,
		YAxisTitle: def.YAxisTitle,
		Points:     make([]Point, 0, len(points)),
		Records:    []Observation{},
	}
	for i, p := range points {
		pt := Point{
			Date:         p.ReleaseDate,
			ScorePercent: p.Score,
			Model:        p.Model,
			Provider:     p.Provider,
			Label:        p.Model,
		}
		if i == len(points)-1 {
			pt.IsCurrentSOTA = true
			pt.Label = p.Model + " " + SOTAMarker
		}
		s.Points = append(s.Points, pt)
	}
	return s
}

// BuildAll returns one series per table benchmark, in table order.
// Benchmarks without a frontier yield an empty series.
func BuildAll(frontiers map[benchmark.ID][]model.FrontierPoint, table benchmark.Table) []Series {
	defs := table.Definitions()
	out := make([]Series, 0, len(defs))
	for _, def := range defs {
		out = append(out, Build(frontiers[def.ID], def))
	}
	return out
}

// Observations returns the records of def's benchmark in chronological
// order, scaled to percent. Records sharing a date are ordered by score
// descending, then model name. Non-finite scores are dropped. The
// TopAnnotated highest scores are marked, earlier records winning ties.
func Observations(records []model.ScoreRecord, def benchmark.Definition) []Observation {
	batch := make([]model.ScoreRecord, 0, len(records))
	for _, r := range records {
		if r.Benchmark != def.ID || math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
			continue
		}
		batch = append(batch, r)
	}
	slices.SortStableFunc(batch, func(a, b model.ScoreRecord) int {
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
	})

	out := make([]Observation, 0, len(batch))
	for _, r := range batch {
		o := Observation{
			Date:         r.ReleaseDate,
			ScorePercent: frontier.ToPercent(def.Scale, r.Score),
			Model:        r.Model,
			Provider:     r.Provider,
		}
		if r.CI != nil {
			lo := frontier.ToPercent(def.Scale, r.CI.Lower)
			hi := frontier.ToPercent(def.Scale, r.CI.Upper)
			o.Lower, o.Upper = &lo, &hi
		}
		out = append(out, o)
	}

	rank := make([]int, len(out))
	for i := range rank {
		rank[i] = i
	}
	slices.SortStableFunc(rank, func(a, b int) int {
		return cmp.Compare(out[b].ScorePercent, out[a].ScorePercent)
	})
	for _, i := range rank[:min(TopAnnotated, len(rank))] {
		out[i].Annotated = true
	}
	return out
}

// FitTrend fits score against days since the earliest release date. It
// returns nil for fewer than two observations or when all share one date.
func FitTrend(obs []Observation) *Trend {
	if len(obs) < 2 {
		return nil
	}
	first, last := obs[0].Date, obs[0].Date
	for _, o := range obs[1:] {
		if o.Date.Before(first) {
			first = o.Date
		}
		if o.Date.After(last) {
			last = o.Date
		}
	}
	if first == last {
		return nil
	}

	n := float64(len(obs))
	var sx, sy, sxx, sxy float64
	for _, o := range obs {
		x := float64(o.Date.DaysSince(first))
		sx += x
		sy += o.ScorePercent
		sxx += x * x
		sxy += x * o.ScorePercent
	}
	slope := (n*sxy - sx*sy) / (n*sxx - sx*sx)
	intercept := (sy - slope*sx) / n
	return &Trend{
		From:      first,
		To:        last,
		FromScore: intercept,
		ToScore:   intercept + slope*float64(last.DaysSince(first)),
	}
}

// AttachRecords fills Records and Trend of each series from the records
// grouped by benchmark. Series whose benchmark is not in table are left
// unchanged.
func AttachRecords(series []Series, groups map[benchmark.ID][]model.ScoreRecord, table benchmark.Table) {
	for i := range series {
		def, ok := table.Get(series[i].Benchmark)
		if !ok {
			continue
		}
		series[i].Records = Observations(groups[def.ID], def)
		series[i].Trend = FitTrend(series[i].Records)
	}
}

// Find returns the series of id.
func Find(series []Series, id benchmark.ID) (Series, bool) {
	for _, s := range series {
		if s.Benchmark == id {
			return s, true
		}
	}
	return Series{}, false
}
