// Package diagnostics collects the non-fatal problems found during a run.
//
// Per-record and per-benchmark failures never abort a run: they are turned
// into Diagnostic values, aggregated into a Report and surfaced at the end.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Kind classifies a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	KindMalformedRecord   Kind = "malformed_record"
	KindEmptyBenchmark    Kind = "empty_benchmark"
	KindSourceUnavailable Kind = "source_unavailable"
	KindUnknownBenchmark  Kind = "unknown_benchmark_id"
)

// Kinds lists every kind in report order.
func Kinds() []Kind {
	return []Kind{KindMalformedRecord, KindUnknownBenchmark, KindSourceUnavailable, KindEmptyBenchmark}
}

// Diagnostic describes one skipped record or degraded benchmark.
type Diagnostic struct {
	Kind      Kind   `json:"kind"`
	Benchmark string `json:"benchmark,omitempty"`
	Source    string `json:"source,omitempty"`
	Line      int    `json:"line,omitempty"`
	Model     string `json:"model,omitempty"`
	Message   string `json:"message"`

	// Err is the underlying cause; it always wraps the kind's sentinel.
	Err error `json:"-"`
}

// Error implements error.
func (d Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	if d.Benchmark != "" {
		b.WriteString(" [" + d.Benchmark + "]")
	}
	if d.Source != "" {
		b.WriteString(" " + d.Source)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
	}
	b.WriteString(": " + d.Message)
	return b.String()
}

// Unwrap exposes the cause so errors.Is matches the kind sentinels.
func (d Diagnostic) Unwrap() error { return d.Err }

// Origin locates a record inside its source.
type Origin struct {
	Benchmark string
	Source    string
	Line      int
	Model     string
}

// Malformed reports a record with an unparseable date or score.
func Malformed(at Origin, cause error) Diagnostic {
	return newDiagnostic(KindMalformedRecord, ErrMalformedRecord, at, cause)
}

// UnknownBenchmark reports a record referencing a benchmark outside the set.
func UnknownBenchmark(at Origin, cause error) Diagnostic {
	return newDiagnostic(KindUnknownBenchmark, ErrUnknownBenchmark, at, cause)
}

// SourceUnavailable reports a source that could not be read.
func SourceUnavailable(benchmark, source string, cause error) Diagnostic {
	return newDiagnostic(KindSourceUnavailable, ErrSourceUnavailable, Origin{Benchmark: benchmark, Source: source}, cause)
}

// EmptyBenchmark reports a benchmark that produced no valid records.
func EmptyBenchmark(benchmark string) Diagnostic {
	return newDiagnostic(KindEmptyBenchmark, ErrEmptyBenchmark, Origin{Benchmark: benchmark},
		fmt.Errorf("no valid records for %s", benchmark))
}

func newDiagnostic(kind Kind, sentinel error, at Origin, cause error) Diagnostic {
	d := Diagnostic{
		Kind:      kind,
		Benchmark: at.Benchmark,
		Source:    at.Source,
		Line:      at.Line,
		Model:     at.Model,
		Err:       sentinel,
		Message:   sentinel.Error(),
	}
	if cause != nil {
		d.Message = cause.Error()
		d.Err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return d
}

// Report aggregates diagnostics in the order they were raised.
type Report struct {
	items []Diagnostic
}

// Add appends diagnostics to the report.
func (r *Report) Add(ds ...Diagnostic) {
	r.items = append(r.items, ds...)
}

// Merge appends every diagnostic of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.items = append(r.items, other.items...)
}

// Len returns the number of diagnostics.
func (r *Report) Len() int { return len(r.items) }

// Items returns a copy of the diagnostics.
func (r *Report) Items() []Diagnostic {
	return append([]Diagnostic(nil), r.items...)
}

// Count returns the number of diagnostics of kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, d := range r.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns the number of diagnostics per kind, omitting zero counts.
func (r *Report) Counts() map[Kind]int {
	out := make(map[Kind]int)
	for _, d := range r.items {
		out[d.Kind]++
	}
	return out
}

// ForBenchmark returns the diagnostics raised for one benchmark.
func (r *Report) ForBenchmark(benchmark string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if d.Benchmark == benchmark {
			out = append(out, d)
		}
	}
	return out
}

// Err combines every diagnostic into one error, or nil for an empty report.
func (r *Report) Err() error {
	if len(r.items) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, d := range r.items {
		merr = multierror.Append(merr, d)
	}
	merr.ErrorFormat = formatList
	return merr.ErrorOrNil()
}

func formatList(es []error) string {
	lines := make([]string, 0, len(es)+1)
	lines = append(lines, fmt.Sprintf("%d diagnostic(s):", len(es)))
	for _, e := range es {
		lines = append(lines, "  * "+e.Error())
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON renders the report as {"counts": {...}, "items": [...]}.
func (r *Report) MarshalJSON() ([]byte, error) {
	items := r.items
	if items == nil {
		items = []Diagnostic{}
	}
	return json.Marshal(struct {
		Total  int          `json:"total"`
		Counts map[Kind]int `json:"counts"`
		Items  []Diagnostic `json:"items"`
	}{Total: len(items), Counts: r.Counts(), Items: items})
}
