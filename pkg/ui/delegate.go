package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// FeedDelegate renders one feed entry per row: region chip, title, meta
type FeedDelegate struct {
	Theme    Theme
	ShowMeta bool // Show the meta column when the list is wide enough
}

func (d FeedDelegate) Height() int {
	return 1
}

func (d FeedDelegate) Spacing() int {
	return 0
}

func (d FeedDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d FeedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(FeedItem)
	if !ok {
		return
	}
	t := d.Theme
	selected := index == m.Index()

	prefix := "  "
	if selected {
		prefix = "▸ "
	}

	chip := RenderRegionBadge(t, i.Region)
	chipWidth := lipgloss.Width(chip)

	metaWidth := 0
	meta := ""
	if d.ShowMeta && i.Meta != "" {
		metaWidth = 24
		meta = t.Renderer.NewStyle().Foreground(t.Subtext).Render(PadLabel(i.Meta, metaWidth))
	}

	// prefix + chip + gap + title + gap + meta
	available := m.Width() - runewidth.StringWidth(prefix) - chipWidth - metaWidth - 2
	if available < 10 {
		available = 10
	}

	titleStyle := t.Base
	if selected {
		titleStyle = t.Selected
	}
	title := titleStyle.Render(PadLabel(i.Heading, available))

	row := prefix + chip + " " + title
	if meta != "" {
		row += " " + meta
	}
	fmt.Fprint(w, row)
}
