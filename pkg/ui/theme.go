package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the adaptive colors used by every view. All styles are built
// from Renderer so tests can render without a terminal.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Live     lipgloss.AdaptiveColor
	Waitlist lipgloss.AdaptiveColor
	National lipgloss.AdaptiveColor
	InScope  lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
}

// DefaultTheme returns the Dracula-flavoured theme for r. A nil renderer uses
// the default lipgloss renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#44475A"},

		Live:     lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"},
		Waitlist: lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFB86C"},
		National: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		InScope:  lipgloss.AdaptiveColor{Light: "#C71585", Dark: "#FF79C6"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"})
	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Foreground(t.Primary).
		Bold(true)

	return t
}

// StatusColor picks the badge color for a region status label
func (t Theme) StatusColor(status string, active bool) lipgloss.AdaptiveColor {
	switch {
	case !active:
		return t.Waitlist
	case status == "National":
		return t.National
	default:
		return t.Live
	}
}
