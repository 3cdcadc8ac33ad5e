package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// DetailModel shows the selected feed item as rendered markdown
type DetailModel struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	wrap     int
	itemID   string
	markdown string
	theme    Theme
}

// NewDetailModel creates an empty detail pane
func NewDetailModel(theme Theme) DetailModel {
	return DetailModel{
		viewport: viewport.New(40, 10),
		theme:    theme,
	}
}

// SetSize resizes the pane and re-renders for the new wrap width
func (d *DetailModel) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 1 {
		height = 1
	}
	d.viewport.Width = width
	d.viewport.Height = height
	if wrap := width - 2; wrap != d.wrap {
		d.wrap = wrap
		d.renderer = nil
		d.render()
	}
}

// SetItem shows item, or clears the pane when item is nil
func (d *DetailModel) SetItem(item *FeedItem) {
	if item == nil {
		d.itemID = ""
		d.markdown = ""
		d.viewport.SetContent(d.theme.Renderer.NewStyle().Foreground(d.theme.Subtext).Italic(true).
			Render("Nothing posted in this region yet."))
		return
	}
	key := string(item.Pillar) + "/" + item.ID
	md := item.Markdown()
	if key == d.itemID && md == d.markdown {
		return
	}
	d.itemID = key
	d.markdown = md
	d.render()
	d.viewport.GotoTop()
}

// ItemID returns the pillar-qualified id of the shown item
func (d *DetailModel) ItemID() string {
	return d.itemID
}

func (d *DetailModel) render() {
	if d.markdown == "" {
		return
	}
	if d.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(d.wrap),
		)
		if err == nil {
			d.renderer = r
		}
	}
	if d.renderer != nil {
		if out, err := d.renderer.Render(d.markdown); err == nil {
			d.viewport.SetContent(out)
			return
		}
	}
	d.viewport.SetContent(d.markdown)
}

// Update forwards scrolling input to the viewport
func (d DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View renders the pane
func (d DetailModel) View() string {
	return d.viewport.View()
}
