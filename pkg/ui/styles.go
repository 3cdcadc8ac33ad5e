package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/stuxhq/stux/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing and layout
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// Layout constants
const (
	headerHeight = 3 // brand line, pillar tabs, divider
	footerHeight = 1
	minListWidth = 36
	menuWidth    = 46
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - For split view layouts
// ══════════════════════════════════════════════════════════════════════════════

func panelStyle(t Theme, focused bool) lipgloss.Style {
	border := t.Border
	if focused {
		border = t.Primary
	}
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING
// ══════════════════════════════════════════════════════════════════════════════

// RenderRegionBadge returns a compact chip for a region, colored by its status
func RenderRegionBadge(t Theme, r *model.Region) string {
	if r == nil {
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("[?]")
	}
	color := t.StatusColor(r.StatusLabel, r.IsActive())
	return t.Renderer.NewStyle().
		Foreground(color).
		Render("[" + TruncateLabel(r.DisplayLabel(), 18) + "]")
}

// RenderStatusBadge renders the status label of a region, or "Waitlist" for
// an inactive region without one
func RenderStatusBadge(t Theme, r model.Region) string {
	label := r.StatusLabel
	if label == "" && !r.IsActive() {
		label = "Waitlist"
	}
	if label == "" {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.StatusColor(r.StatusLabel, r.IsActive())).
		Italic(true).
		Render(label)
}

// RenderPillarTabs renders the three pillar tabs with current highlighted
func RenderPillarTabs(t Theme, current model.Pillar, counts map[model.Pillar]int) string {
	tabs := make([]string, 0, len(model.Pillars))
	for _, p := range model.Pillars {
		label := p.Title()
		if n, ok := counts[p]; ok {
			label += " " + strconv.Itoa(n)
		}
		style := t.Renderer.NewStyle().Padding(0, 1)
		if p == current {
			style = style.Foreground(t.Primary).Bold(true).Underline(true)
		} else {
			style = style.Foreground(t.Subtext)
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND TEXT
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(t Theme, width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}

// TruncateLabel shortens s to at most width terminal cells, ending in an
// ellipsis when cut. Vietnamese diacritics and wide runes are measured by cell.
func TruncateLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PadLabel truncates then right-pads s to exactly width cells
func PadLabel(s string, width int) string {
	return runewidth.FillRight(TruncateLabel(s, width), width)
}
