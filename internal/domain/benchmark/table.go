package benchmark

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Table is an immutable, ordered set of benchmark definitions. It is built once
// at startup and injected into the components that need it.
type Table struct {
	order []ID
	defs  map[ID]Definition
}

// TableOption adjusts a table while it is being built.
type TableOption func(*Table) error

// WithColors overrides display colors. Keys are matched with ParseID.
func WithColors(colors map[string]string) TableOption {
	return func(t *Table) error {
		for key, color := range colors {
			id, err := ParseID(key)
			if err != nil {
				return err
			}
			color = strings.TrimSpace(color)
			if !hexColor.MatchString(color) {
				return fmt.Errorf("%w: %s color %q", ErrInvalidColor, id, color)
			}
			def := t.defs[id]
			def.Color = color
			t.defs[id] = def
		}
		return nil
	}
}

// WithScale overrides the declared source scale of one benchmark.
func WithScale(id ID, scale Scale) TableOption {
	return func(t *Table) error {
		def, ok := t.defs[id]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownBenchmark, id)
		}
		def.Scale = scale
		t.defs[id] = def
		return nil
	}
}

// WithScales overrides declared scales by name. Keys are matched with
// ParseID and values with ParseScale.
func WithScales(scales map[string]string) TableOption {
	return func(t *Table) error {
		for key, name := range scales {
			id, err := ParseID(key)
			if err != nil {
				return err
			}
			scale, err := ParseScale(name)
			if err != nil {
				return fmt.Errorf("%s scale: %w", id, err)
			}
			if err := WithScale(id, scale)(t); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewTable builds the default table and applies opts.
func NewTable(opts ...TableOption) (Table, error) {
	t := Table{order: All(), defs: make(map[ID]Definition, len(All()))}
	for _, def := range defaults() {
		t.defs[def.ID] = def
	}
	for _, opt := range opts {
		if err := opt(&t); err != nil {
			return Table{}, err
		}
	}
	return t, nil
}

// DefaultTable returns the built-in table.
func DefaultTable() Table {
	t, _ := NewTable()
	return t
}

// Get returns the definition of id.
func (t Table) Get(id ID) (Definition, bool) {
	def, ok := t.defs[id]
	return def, ok
}

// IDs returns benchmark ids in display order.
func (t Table) IDs() []ID {
	return append([]ID(nil), t.order...)
}

// Definitions returns every definition in display order.
func (t Table) Definitions() []Definition {
	out := make([]Definition, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.defs[id])
	}
	return out
}

func defaults() []Definition {
	return []Definition{
		{
			ID:         MAST,
			Name:       "MAST",
			FullName:   "Medical AI Safety and Trust",
			Color:      "#10A37F",
			Scale:      ScaleFraction,
			DataFile:   "metrics.csv",
			YAxisTitle: "Overall Score",
			SourceName: "HealthRex Stanford",
			SourceURL:  "https://github.com/HealthRex/mast",
			PaperURL:   "https://arxiv.org/abs/2412.03389",
		},
		{
			ID:         HealthBench,
			Name:       "HealthBench",
			FullName:   "OpenAI HealthBench",
			Color:      "#D97706",
			Scale:      ScaleFraction,
			DataFile:   "healthbench_scores.csv",
			YAxisTitle: "Overall Score",
			SourceName: "OpenAI",
			SourceURL:  "https://openai.com/index/healthbench/",
			PaperURL:   "https://arxiv.org/abs/2505.08775",
		},
		{
			ID:         MedQA,
			Name:       "MedQA",
			FullName:   "MedQA (USMLE)",
			Color:      "#4285F4",
			Scale:      ScaleFraction,
			DataFile:   "medqa_scores.csv",
			YAxisTitle: "Accuracy",
			SourceName: "Vals.ai",
			SourceURL:  "https://www.vals.ai/benchmarks/medqa",
			PaperURL:   "https://arxiv.org/abs/2009.13081",
		},
		{
			ID:         MedHELM,
			Name:       "MedHELM",
			FullName:   "Stanford MedHELM",
			Color:      "#6366F1",
			Scale:      ScaleFraction,
			DataFile:   "medhelm_scores.csv",
			YAxisTitle: "Win Rate",
			SourceName: "Stanford CRFM",
			SourceURL:  "https://crfm.stanford.edu/helm/medhelm/latest/",
			PaperURL:   "https://arxiv.org/abs/2505.23802",
		},
	}
}
