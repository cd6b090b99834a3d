package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/medbench/internal/domain/presentation"
)

const (
	defaultWidth  = 1200
	defaultHeight = 700
	defaultTitle  = "Healthcare AI Benchmarks: State of the Art over Time"
	xAxisTitle    = "Model Release Date"
)

// PNGRenderer draws every non-empty series on one static time chart.
type PNGRenderer struct {
	width  int
	height int
	title  string
}

// NewPNGRenderer returns a renderer with a 1200x700 canvas.
func NewPNGRenderer(opts ...PNGOption) *PNGRenderer {
	r := &PNGRenderer{width: defaultWidth, height: defaultHeight, title: defaultTitle}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format implements Renderer.
func (r *PNGRenderer) Format() string { return FormatPNG }

// Render implements Renderer.
func (r *PNGRenderer) Render(w io.Writer, series []presentation.Series, theme Theme) error {
	const op = "render.png"

	lines := make([]chart.Series, 0, len(series)+1)
	var annotations []chart.Value2
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if s.Empty() {
			continue
		}
		xs, ys := stepValues(s.Points)
		color := hexColor(s.Color)
		lines = append(lines, chart.TimeSeries{
			Name: s.Name,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2.5,
				DotColor:    color,
				DotWidth:    4,
			},
			XValues: xs,
			YValues: ys,
		})
		for _, p := range s.Points {
			lo = math.Min(lo, p.ScorePercent)
			hi = math.Max(hi, p.ScorePercent)
		}
		if sota, ok := s.SOTA(); ok {
			annotations = append(annotations, chart.Value2{
				XValue: chart.TimeToFloat64(dateTime(sota)),
				YValue: sota.ScorePercent,
				Label:  sota.Label,
				Style: chart.Style{
					StrokeColor: color,
					FillColor:   hexColor(theme.Panel),
					FontColor:   hexColor(theme.Text),
				},
			})
		}
	}
	if len(lines) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoData)
	}
	lines = append(lines, chart.AnnotationSeries{Annotations: annotations})

	text := hexColor(theme.Text)
	muted := hexColor(theme.TextMuted)
	grid := chart.Style{StrokeColor: hexColor(theme.Grid), StrokeWidth: 1}
	axis := chart.Style{FontColor: muted, StrokeColor: hexColor(theme.Grid)}

	ch := chart.Chart{
		Title:      r.title,
		TitleStyle: chart.Style{FontColor: text, FontSize: 16},
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{
			FillColor: hexColor(theme.Background),
			Padding:   chart.Box{Top: 60, Left: 24, Right: 40, Bottom: 24},
		},
		Canvas: chart.Style{FillColor: hexColor(theme.Background)},
		XAxis: chart.XAxis{
			Name:           xAxisTitle,
			NameStyle:      chart.Style{FontColor: muted},
			Style:          axis,
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           "Score (%)",
			NameStyle:      chart.Style{FontColor: muted},
			Style:          axis,
			Range:          yRange(lo, hi),
			ValueFormatter: percentFormatter,
			GridMajorStyle: grid,
		},
		Series: lines,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{
		FillColor:   hexColor(theme.Panel),
		FontColor:   text,
		StrokeColor: hexColor(theme.Grid),
	})}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// stepValues expands frontier points into a step line: each score holds
// until the next record is set. A single point is widened by one day so the
// axis range is never zero.
func stepValues(points []presentation.Point) ([]time.Time, []float64) {
	if len(points) == 1 {
		t := dateTime(points[0])
		return []time.Time{t, t.AddDate(0, 0, 1)}, []float64{points[0].ScorePercent, points[0].ScorePercent}
	}
	xs := make([]time.Time, 0, 2*len(points))
	ys := make([]float64, 0, 2*len(points))
	for i, p := range points {
		t := dateTime(p)
		if i > 0 {
			xs = append(xs, t)
			ys = append(ys, points[i-1].ScorePercent)
		}
		xs = append(xs, t)
		ys = append(ys, p.ScorePercent)
	}
	return xs, ys
}

func dateTime(p presentation.Point) time.Time {
	return p.Date.In(time.UTC)
}

func yRange(lo, hi float64) *chart.ContinuousRange {
	min := math.Max(0, math.Floor(lo/5)*5-5)
	max := math.Min(100, math.Ceil(hi/5)*5+5)
	if max <= min {
		max = min + 10
	}
	return &chart.ContinuousRange{Min: min, Max: max}
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f)
	}
	return ""
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
