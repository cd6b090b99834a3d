// Package benchmark declares the fixed set of healthcare benchmarks and the
// immutable table describing how each one is sourced, scaled and displayed.
package benchmark

import (
	"fmt"
	"strings"
)

// ID identifies one benchmark from the fixed enumerated set.
type ID string

// The declared benchmark set.
const (
	MAST        ID = "MAST"
	HealthBench ID = "HealthBench"
	MedQA       ID = "MedQA"
	MedHELM     ID = "MedHELM"
)

// All lists every benchmark in display order.
func All() []ID {
	return []ID{MAST, HealthBench, MedQA, MedHELM}
}

// ParseID matches s against the fixed set, ignoring case and surrounding space.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for _, id := range All() {
		if strings.EqualFold(string(id), s) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBenchmark, s)
}

// Slug returns the lower-case form used in file names and URLs.
func (id ID) Slug() string { return strings.ToLower(string(id)) }

// Scale is the declared unit of a benchmark's source scores.
type Scale int

const (
	// ScaleFraction means source scores lie in 0..1 and are multiplied by 100.
	ScaleFraction Scale = iota
	// ScalePercent means source scores are already percentages.
	ScalePercent
)

func (s Scale) String() string {
	switch s {
	case ScaleFraction:
		return "fraction"
	case ScalePercent:
		return "percent"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// ParseScale accepts "fraction" or "percent", ignoring case and surrounding space.
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fraction":
		return ScaleFraction, nil
	case "percent":
		return ScalePercent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidScale, s)
	}
}

// Definition describes one benchmark.
type Definition struct {
	ID         ID
	Name       string
	FullName   string
	Color      string // hex, e.g. "#10A37F"
	Scale      Scale
	DataFile   string // per-benchmark CSV under the data directory
	YAxisTitle string
	SourceName string
	SourceURL  string
	PaperURL   string
}
