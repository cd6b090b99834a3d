package render

import (
	"fmt"
	"strings"
)

// Theme names.
const (
	ThemeWhite = "white"
	ThemeDark  = "dark"
)

// Theme is the palette of a rendered chart.
type Theme struct {
	Name       string
	Background string
	Panel      string
	Text       string
	TextMuted  string
	Grid       string
	Accent     string
}

// White is a light theme for documents.
func White() Theme {
	return Theme{
		Name:       ThemeWhite,
		Background: "#ffffff",
		Panel:      "#f5f5f7",
		Text:       "#1f2937",
		TextMuted:  "#6b7280",
		Grid:       "#e5e7eb",
		Accent:     "#c8916e",
	}
}

// Dark is the purple newsletter theme.
func Dark() Theme {
	return Theme{
		Name:       ThemeDark,
		Background: "#1b142f",
		Panel:      "#29223b",
		Text:       "#ffffff",
		TextMuted:  "#a8a3b3",
		Grid:       "#3d3650",
		Accent:     "#c8916e",
	}
}

// ThemeByName resolves a theme name, case-insensitively.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ThemeWhite, "light":
		return White(), nil
	case ThemeDark:
		return Dark(), nil
	default:
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
}

// Themes resolves every name in names.
func Themes(names []string) ([]Theme, error) {
	out := make([]Theme, 0, len(names))
	for _, n := range names {
		t, err := ThemeByName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
