// Package ui provides the visual styling for the finnerve viewer:
// the color theme, the component styles, and the tab bar.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/genomike/finnerve/internal/extract"
)

// Color palette
var (
	// Light mode
	LightForeground = lipgloss.Color("#1c2430")
	LightAccent     = lipgloss.Color("#2e7d32")
	LightMuted      = lipgloss.Color("#8a919c")
	LightBorder     = lipgloss.Color("#d5dae2")
	LightCard       = lipgloss.Color("#f4f5f6")

	// Dark mode
	DarkForeground = lipgloss.Color("#e8eaed")
	DarkAccent     = lipgloss.Color("#81c995")
	DarkMuted      = lipgloss.Color("#6b7480")
	DarkBorder     = lipgloss.Color("#3a4454")
	DarkCard       = lipgloss.Color("#1d2633")

	// Semantic colors (same in both modes)
	SeverityHighColor   = lipgloss.Color("#e53935")
	SeverityMediumColor = lipgloss.Color("#FFC107")
	SeverityLowColor    = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from the terminal environment. COLORFGBG
// ("fg;bg") with a dark background index selects dark mode, as does
// FINNERVE_DARK_MODE=1.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}
	if os.Getenv("FINNERVE_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	EmptyTab  lipgloss.Style

	// Text
	Title        lipgloss.Style
	SectionTitle lipgloss.Style
	Body         lipgloss.Style
	Muted        lipgloss.Style
	Bold         lipgloss.Style
	ListMarker   lipgloss.Style

	// Status
	Error   lipgloss.Style
	Pending lipgloss.Style

	// Code
	CodeBlock lipgloss.Style
	FileChip  lipgloss.Style

	// Badges
	BadgeHigh   lipgloss.Style
	BadgeMedium lipgloss.Style
	BadgeLow    lipgloss.Style

	Spinner lipgloss.Style
	Divider lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Padding(0, 1).
		Bold(true)

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(theme.Border),

		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(theme.Accent),

		EmptyTab: lipgloss.NewStyle().
			Foreground(theme.Border).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(theme.Border),

		Title: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			MarginBottom(1),

		SectionTitle: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			MarginTop(1),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		ListMarker: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Error: lipgloss.NewStyle().
			Foreground(SeverityHighColor).
			Bold(true),

		Pending: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		CodeBlock: lipgloss.NewStyle().
			Background(theme.Card).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		FileChip: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(theme.Muted).
			Padding(0, 1),

		BadgeHigh:   badge.Background(SeverityHighColor),
		BadgeMedium: badge.Background(SeverityMediumColor).Foreground(lipgloss.Color("#1c2430")),
		BadgeLow:    badge.Background(SeverityLowColor),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles with the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// SeverityBadge renders the impact badge for a severity, or an empty
// string when the severity is unknown (no badge, by contract).
func (s Styles) SeverityBadge(sev extract.Severity) string {
	switch sev {
	case extract.SeverityHigh:
		return s.BadgeHigh.Render("IMPACTO ALTO")
	case extract.SeverityMedium:
		return s.BadgeMedium.Render("IMPACTO MEDIO")
	case extract.SeverityLow:
		return s.BadgeLow.Render("IMPACTO BAJO")
	}
	return ""
}

// RenderDivider returns a horizontal divider of the given width.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
