package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/stuxhq/stux/pkg/menu"
	"github.com/stuxhq/stux/pkg/model"
)

// RegionMenuModel is the region switcher overlay. Navigation state lives in
// the menu.Controller; this model only adds the search box and the cursor.
type RegionMenuModel struct {
	ctrl *menu.Controller

	searchInput   textinput.Model
	filtered      []model.Region
	selectedIndex int
	viewKey       string

	width  int
	height int
	theme  Theme
}

// NewRegionMenuModel creates the overlay over ctrl
func NewRegionMenuModel(ctrl *menu.Controller, theme Theme) RegionMenuModel {
	ti := textinput.New()
	ti.Placeholder = "Filter regions..."
	ti.CharLimit = 48
	ti.Width = menuWidth - 10

	m := RegionMenuModel{
		ctrl:        ctrl,
		searchInput: ti,
		theme:       theme,
		width:       80,
		height:      24,
	}
	m.sync()
	return m
}

// Controller returns the state machine behind the overlay
func (m *RegionMenuModel) Controller() *menu.Controller {
	return m.ctrl
}

// IsOpen reports whether the overlay is showing
func (m *RegionMenuModel) IsOpen() bool {
	return m.ctrl.IsOpen()
}

// SetSize updates the dimensions the overlay is centered in
func (m *RegionMenuModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Toggle opens or closes the overlay
func (m *RegionMenuModel) Toggle() {
	m.ctrl.Toggle()
	if m.ctrl.IsOpen() {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
	m.sync()
}

// DismissOutside closes the overlay after a click outside its box
func (m *RegionMenuModel) DismissOutside() {
	m.ctrl.DismissOutside()
	m.searchInput.Blur()
	m.sync()
}

// sync rebuilds the visible rows. Swapping lists (root <-> subregion) clears
// the search box and puts the cursor on the active region when it is listed.
func (m *RegionMenuModel) sync() {
	if key := m.ctrl.ViewKey(); key != m.viewKey || !m.ctrl.IsOpen() {
		m.viewKey = key
		m.searchInput.SetValue("")
		m.filterItems()
		m.selectedIndex = 0
		active := m.ctrl.Selection().ActiveRegionID()
		for i, r := range m.filtered {
			if r.ID == active {
				m.selectedIndex = i
				break
			}
		}
		return
	}
	m.filterItems()
}

// Update handles a key while the overlay is open. status is a message for
// the footer when a key was refused.
func (m *RegionMenuModel) Update(key string) (handled bool, status string) {
	if !m.ctrl.IsOpen() {
		return false, ""
	}

	switch key {
	case "up", "ctrl+p", "shift+tab":
		m.moveUp()
		return true, ""
	case "down", "ctrl+n", "tab":
		m.moveDown()
		return true, ""
	case "right":
		if r := m.current(); r != nil && m.ctrl.OpenSubregionView(r.ID) {
			m.sync()
		}
		return true, ""
	case "left":
		if m.ctrl.Back() {
			m.sync()
		}
		return true, ""
	case "enter":
		r := m.current()
		if r == nil {
			return true, ""
		}
		if !m.ctrl.SelectRegion(r) {
			return true, r.DisplayLabel() + " is on the waitlist"
		}
		m.searchInput.Blur()
		m.sync()
		return true, "Region: " + r.DisplayLabel()
	case "esc":
		m.ctrl.Close()
		m.searchInput.Blur()
		m.sync()
		return true, ""
	case "backspace":
		value := m.searchInput.Value()
		if value == "" {
			if m.ctrl.Back() {
				m.sync()
			}
			return true, ""
		}
		runes := []rune(value)
		m.searchInput.SetValue(string(runes[:len(runes)-1]))
		m.filterItems()
		m.selectedIndex = 0
		return true, ""
	}

	if len([]rune(key)) == 1 {
		m.searchInput.SetValue(m.searchInput.Value() + key)
		m.filterItems()
		m.selectedIndex = 0
		return true, ""
	}
	return true, ""
}

func (m *RegionMenuModel) moveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

func (m *RegionMenuModel) moveDown() {
	if m.selectedIndex < len(m.filtered)-1 {
		m.selectedIndex++
	}
}

func (m *RegionMenuModel) current() *model.Region {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.filtered) {
		return nil
	}
	r := m.filtered[m.selectedIndex]
	return &r
}

func (m *RegionMenuModel) filterItems() {
	all := m.ctrl.Regions()
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filtered = all
		return
	}

	searchStrings := make([]string, len(all))
	for i, r := range all {
		searchStrings[i] = r.DisplayLabel() + " " + r.Label + " " + r.ID
	}

	matches := fuzzy.Find(query, searchStrings)
	m.filtered = make([]model.Region, 0, len(matches))
	for _, match := range matches {
		m.filtered = append(m.filtered, all[match.Index])
	}
	if m.selectedIndex >= len(m.filtered) {
		m.selectedIndex = 0
	}
}

// SearchValue returns the current search input value
func (m *RegionMenuModel) SearchValue() string {
	return m.searchInput.Value()
}

// ItemCount returns the number of visible rows
func (m *RegionMenuModel) ItemCount() int {
	return len(m.filtered)
}

// SelectedRegion returns the region under the cursor, or nil
func (m *RegionMenuModel) SelectedRegion() *model.Region {
	return m.current()
}

// box renders the overlay without placement
func (m *RegionMenuModel) box() string {
	t := m.theme
	contentWidth := menuWidth - 4

	var lines []string

	titleStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	header := m.ctrl.HeaderLabel()
	if m.ctrl.IsSubregionView() {
		header = "‹ " + header
	}
	lines = append(lines, titleStyle.Render(TruncateLabel(header, contentWidth)))
	if parent := m.ctrl.ParentRegion(); parent != nil && parent.Tagline != "" {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Render(TruncateLabel(parent.Tagline, contentWidth)))
	}
	lines = append(lines, "")

	inputStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)
	searchValue := m.searchInput.Value()
	if searchValue == "" {
		searchValue = t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(searchValue), "")

	maxVisible := m.height - 14
	if maxVisible < 4 {
		maxVisible = 4
	}
	if maxVisible > 12 {
		maxVisible = 12
	}

	if len(m.filtered) == 0 {
		emptyStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		lines = append(lines, emptyStyle.Render("  No matching regions"))
	} else {
		start := 0
		if m.selectedIndex >= maxVisible {
			start = m.selectedIndex - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(m.filtered) {
			end = len(m.filtered)
		}
		for i := start; i < end; i++ {
			lines = append(lines, m.renderItem(m.filtered[i], i == m.selectedIndex, contentWidth))
		}
		if hidden := len(m.filtered) - (end - start); hidden > 0 {
			moreStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
			lines = append(lines, moreStyle.Render("  ... and "+strconv.Itoa(hidden)+" more"))
		}
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
	footer := "↑/↓ move • enter select • → open • esc close"
	if m.ctrl.IsSubregionView() {
		footer = "↑/↓ move • enter select • ← back • esc close"
	}
	lines = append(lines, footerStyle.Render(TruncateLabel(footer, contentWidth)))

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(menuWidth).
		Render(strings.Join(lines, "\n"))
}

func (m *RegionMenuModel) renderItem(r model.Region, isSelected bool, maxWidth int) string {
	t := m.theme

	prefix := "  "
	if isSelected {
		prefix = "▸ "
	}
	marker := "  "
	if r.ID == m.ctrl.Selection().ActiveRegionID() {
		marker = "● "
	}
	chevron := ""
	if !m.ctrl.IsSubregionView() && m.ctrl.HasSubregions(r.ID) {
		chevron = " ›"
	}

	status := RenderStatusBadge(t, r)
	statusWidth := lipgloss.Width(status)
	labelWidth := maxWidth - 4 - statusWidth - 2 - lipgloss.Width(chevron)
	if labelWidth < 8 {
		labelWidth = 8
	}

	nameStyle := t.Base
	switch {
	case isSelected:
		nameStyle = t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	case !r.IsActive():
		nameStyle = t.Renderer.NewStyle().Foreground(t.Subtext)
	}

	return prefix + marker + nameStyle.Render(PadLabel(r.DisplayLabel(), labelWidth)) + " " + status + chevron
}

// Bounds returns the rectangle the centered overlay occupies
func (m *RegionMenuModel) Bounds() (x, y, w, h int) {
	box := m.box()
	w, h = lipgloss.Width(box), lipgloss.Height(box)
	x = (m.width - w) / 2
	y = (m.height - h) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y, w, h
}

// Contains reports whether the cell (x, y) lies on the overlay
func (m *RegionMenuModel) Contains(x, y int) bool {
	bx, by, bw, bh := m.Bounds()
	return x >= bx && x < bx+bw && y >= by && y < by+bh
}

// View renders the overlay centered in the available space
func (m *RegionMenuModel) View() string {
	if !m.ctrl.IsOpen() {
		return ""
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.box())
}
