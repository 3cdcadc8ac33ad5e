package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/stuxhq/stux/pkg/feed"
	"github.com/stuxhq/stux/pkg/loader"
	"github.com/stuxhq/stux/pkg/menu"
	"github.com/stuxhq/stux/pkg/model"
	"github.com/stuxhq/stux/pkg/region"
)

// Options configures NewModel
type Options struct {
	Selection *region.Selection
	Feeds     *loader.Feeds
	Profile   model.Profile
	Pillar    model.Pillar

	// FeedsDir is re-read for a pillar whenever Reloads delivers it.
	FeedsDir string
	Reloads  <-chan model.Pillar

	Logger *log.Logger
	Theme  *Theme
}

// exchangeFilter is shared by pointer with the exchange predicate, so moving
// between categories takes effect on the next read without invalidation.
type exchangeFilter struct {
	category model.ExchangeCategory // "" shows every category
}

func (f *exchangeFilter) next() {
	if f.category == "" {
		f.category = model.ExchangeCategories[0]
		return
	}
	for i, c := range model.ExchangeCategories {
		if c == f.category {
			if i+1 < len(model.ExchangeCategories) {
				f.category = model.ExchangeCategories[i+1]
			} else {
				f.category = ""
			}
			return
		}
	}
	f.category = ""
}

func (f *exchangeFilter) label() string {
	if f.category == "" {
		return "All offers"
	}
	return f.category.Label()
}

// feedChangedMsg reports that a pillar's file changed on disk
type feedChangedMsg struct {
	pillar model.Pillar
}

// feedLoadedMsg carries the result of reloading one pillar
type feedLoadedMsg struct {
	pillar model.Pillar
	feeds  *loader.Feeds
	err    error
}

// statusClearMsg clears the footer status if it is still the given one
type statusClearMsg struct {
	seq int
}

// Model is the main Bubble Tea model: pillar tabs over region-scoped feeds,
// with the region switcher as an overlay.
type Model struct {
	sel  *region.Selection
	menu RegionMenuModel
	help HelpOverlayModel

	community *feed.Scoped[model.CommunityPost]
	exchange  *feed.Scoped[model.ExchangePost]
	insight   *feed.Scoped[model.InsightPost]
	filter    *exchangeFilter

	pillar model.Pillar
	list   list.Model
	detail DetailModel

	profile  model.Profile
	feedsDir string
	reloads  <-chan model.Pillar
	logger   *log.Logger
	theme    Theme

	width     int
	height    int
	status    string
	statusSeq int
	quitting  bool

	copyText func(string) error
}

// NewModel wires the selection and feeds into a ready-to-run model
func NewModel(opts Options) Model {
	theme := DefaultTheme(nil)
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	feeds := opts.Feeds
	if feeds == nil {
		feeds = &loader.Feeds{}
	}
	pillar := opts.Pillar
	if !pillar.IsValid() {
		pillar = model.PillarCommunity
	}

	filter := &exchangeFilter{}
	sel := opts.Selection

	delegate := FeedDelegate{Theme: theme}
	l := list.New(nil, delegate, minListWidth, 10)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := Model{
		sel:  sel,
		menu: NewRegionMenuModel(menu.New(sel), theme),
		help: NewHelpOverlayModel(theme),

		community: feed.NewScoped(sel, feed.NewStore(feeds.Community), nil),
		exchange: feed.NewScoped(sel, feed.NewStore(feeds.Exchange), func(p model.ExchangePost) bool {
			return filter.category == "" || p.Category == filter.category
		}),
		insight: feed.NewScoped(sel, feed.NewStore(feeds.Insight), nil),
		filter:  filter,

		pillar: pillar,
		list:   l,
		detail: NewDetailModel(theme),

		profile:  opts.Profile,
		feedsDir: opts.FeedsDir,
		reloads:  opts.Reloads,
		logger:   logger,
		theme:    theme,
		width:    100,
		height:   30,

		copyText: clipboard.WriteAll,
	}
	m.resize()
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForReload(m.reloads)
}

func waitForReload(ch <-chan model.Pillar) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return feedChangedMsg{pillar: p}
	}
}

func reloadPillar(dir string, p model.Pillar, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		feeds, err := loader.ReloadPillar(ctx, dir, p, logger)
		return feedLoadedMsg{pillar: p, feeds: feeds, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case feedChangedMsg:
		m.logger.Info("feed changed, reloading", "pillar", msg.pillar)
		return m, tea.Batch(reloadPillar(m.feedsDir, msg.pillar, m.logger), waitForReload(m.reloads))

	case feedLoadedMsg:
		if msg.err != nil {
			m.logger.Error("reload failed", "pillar", msg.pillar, "err", msg.err)
			return m, m.setStatus("Reload failed: " + msg.err.Error())
		}
		m.applyReload(msg.pillar, msg.feeds)
		m.refresh()
		return m, m.setStatus(msg.pillar.Title() + " feed reloaded")

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.MouseMsg:
		// The overlay is centered in the body, below the header.
		if m.menu.IsOpen() && msg.Action == tea.MouseActionPress && !m.menu.Contains(msg.X, msg.Y-headerHeight) {
			m.menu.DismissOutside()
		}
		return m, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

		if m.help.IsVisible() {
			m.help, _ = m.help.Update(msg)
			return m, nil
		}

		if m.menu.IsOpen() {
			before := m.sel.ActiveRegionID()
			_, status := m.menu.Update(key)
			if m.sel.ActiveRegionID() != before {
				m.refresh()
			}
			if status != "" {
				cmds = append(cmds, m.setStatus(status))
			}
			return m, tea.Batch(cmds...)
		}

		switch key {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.help.Toggle()
			return m, nil
		case "r":
			m.menu.Toggle()
			return m, nil
		case "tab":
			m.setPillar(nextPillar(m.pillar, 1))
			return m, nil
		case "shift+tab":
			m.setPillar(nextPillar(m.pillar, -1))
			return m, nil
		case "1", "2", "3":
			idx, _ := strconv.Atoi(key)
			m.setPillar(model.Pillars[idx-1])
			return m, nil
		case "c":
			if m.pillar == model.PillarExchange {
				m.filter.next()
				m.refresh()
				return m, m.setStatus("Showing: " + m.filter.label())
			}
			return m, nil
		case "y":
			return m, m.copySelected()
		case "pgdown", "pgup", "ctrl+d", "ctrl+u":
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		m.syncDetail()
		return m, cmd
	}

	return m, nil
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m *Model) applyReload(p model.Pillar, feeds *loader.Feeds) {
	if feeds == nil {
		return
	}
	switch p {
	case model.PillarCommunity:
		m.community.Store().Replace(feeds.Community)
	case model.PillarExchange:
		m.exchange.Store().Replace(feeds.Exchange)
	case model.PillarInsight:
		m.insight.Store().Replace(feeds.Insight)
	}
}

func (m *Model) copySelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(FeedItem)
	if !ok {
		return m.setStatus("Nothing to copy")
	}
	if err := m.copyText(item.ClipboardText()); err != nil {
		m.logger.Warn("clipboard copy failed", "err", err)
		return m.setStatus("Clipboard unavailable")
	}
	return m.setStatus("Copied: " + TruncateLabel(item.Heading, 40))
}

func nextPillar(p model.Pillar, step int) model.Pillar {
	n := len(model.Pillars)
	for i, candidate := range model.Pillars {
		if candidate == p {
			return model.Pillars[((i+step)%n+n)%n]
		}
	}
	return model.Pillars[0]
}

func (m *Model) setPillar(p model.Pillar) {
	if p == m.pillar {
		return
	}
	m.pillar = p
	m.list.Select(0)
	m.refresh()
}

// items projects the current pillar onto the active scope
func (m *Model) items(p model.Pillar) []FeedItem {
	var out []FeedItem
	switch p {
	case model.PillarCommunity:
		for _, e := range m.community.Entries() {
			out = append(out, communityItem(e))
		}
	case model.PillarExchange:
		for _, e := range m.exchange.Entries() {
			out = append(out, exchangeItem(e))
		}
	case model.PillarInsight:
		for _, e := range m.insight.Entries() {
			out = append(out, insightItem(e))
		}
	}
	return out
}

// refresh rebuilds the list for the current pillar, keeping the cursor on
// the same item when it is still visible.
func (m *Model) refresh() {
	var keep string
	if cur, ok := m.list.SelectedItem().(FeedItem); ok {
		keep = cur.ID
	}

	items := m.items(m.pillar)
	listItems := make([]list.Item, len(items))
	selected := 0
	for i, it := range items {
		listItems[i] = it
		if keep != "" && it.ID == keep {
			selected = i
		}
	}
	m.list.SetItems(listItems)
	m.list.Select(selected)
	m.syncDetail()
}

func (m *Model) syncDetail() {
	if item, ok := m.list.SelectedItem().(FeedItem); ok {
		m.detail.SetItem(&item)
		return
	}
	m.detail.SetItem(nil)
}

func (m *Model) splitView() bool {
	return m.width >= 100
}

func (m *Model) resize() {
	bodyHeight := m.height - headerHeight - footerHeight - 2 // panel borders
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	listWidth := m.width - 2
	if m.splitView() {
		listWidth = m.width*2/5 - 2
		if listWidth < minListWidth {
			listWidth = minListWidth
		}
		m.detail.SetSize(m.width-listWidth-6, bodyHeight)
	} else {
		m.detail.SetSize(m.width-2, bodyHeight)
	}

	m.list.SetSize(listWidth, bodyHeight)
	m.list.SetDelegate(FeedDelegate{Theme: m.theme, ShowMeta: listWidth >= 70})
	m.menu.SetSize(m.width, m.height-headerHeight-footerHeight)
	m.help.SetSize(m.width, m.height)
}

func (m Model) hasProfile() bool {
	return m.profile.Username != "" || m.profile.Region != ""
}

// HomeRegionID is the member's resolved home region
func (m Model) HomeRegionID() string {
	return feed.ResolveUserRegion(m.sel, m.profile.Region)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case m.help.IsVisible():
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.help.View())
	case m.menu.IsOpen():
		body = m.menu.View()
	default:
		body = m.renderBody()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	t := m.theme

	brand := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render("stux")
	active := m.sel.ActiveRegion()
	regionLabel := m.menu.Controller().ActiveRegionLabel()
	chip := t.Renderer.NewStyle().Foreground(t.Live).Render("◉ " + regionLabel)
	if active != nil && !active.IsActive() {
		chip = t.Renderer.NewStyle().Foreground(t.Waitlist).Render("◉ " + regionLabel)
	}

	scope := m.sel.ActiveScope()
	scopeText := ""
	if n := scope.Len() - 1; n > 0 {
		scopeText = t.Renderer.NewStyle().Foreground(t.InScope).
			Render(fmt.Sprintf("+%d subregion%s", n, plural(n)))
	}

	parts := []string{brand, chip}
	if scopeText != "" {
		parts = append(parts, scopeText)
	}
	if m.hasProfile() {
		if home := m.sel.RegionMeta(m.HomeRegionID()); home != nil {
			who := m.profile.DisplayName()
			if who == "" {
				who = "you"
			}
			parts = append(parts, t.Renderer.NewStyle().Foreground(t.Subtext).
				Render(fmt.Sprintf("%s · home %s", who, home.DisplayLabel())))
		}
	}
	line := strings.Join(parts, "  ")

	counts := map[model.Pillar]int{
		model.PillarCommunity: len(m.community.Entries()),
		model.PillarExchange:  len(m.exchange.Entries()),
		model.PillarInsight:   len(m.insight.Entries()),
	}
	tabs := RenderPillarTabs(t, m.pillar, counts)
	if m.pillar == model.PillarExchange {
		tabs += "  " + t.Renderer.NewStyle().Foreground(t.Secondary).Render("⟨"+m.filter.label()+"⟩")
	}

	return lipgloss.JoinVertical(lipgloss.Left, line, tabs, RenderDivider(t, m.width))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (m Model) renderBody() string {
	t := m.theme
	listView := m.list.View()
	if len(m.list.Items()) == 0 {
		empty := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
			Render("No " + strings.ToLower(m.pillar.Title()) + " posts in " + m.menu.Controller().ActiveRegionLabel() + " yet.")
		listView = lipgloss.NewStyle().Width(m.list.Width()).Height(m.list.Height()).Render(empty)
	}

	listPanel := panelStyle(t, true).Render(listView)
	if !m.splitView() {
		return listPanel
	}
	detailPanel := panelStyle(t, false).Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPanel, " ", detailPanel)
}

func (m Model) renderFooter() string {
	t := m.theme
	if m.status != "" {
		return t.Renderer.NewStyle().Foreground(t.Primary).Render(m.status)
	}
	hints := "r regions • tab pillar • c category • y copy • ? help • q quit"
	if m.menu.IsOpen() {
		hints = "type to filter • enter select • esc close"
	}
	return t.Renderer.NewStyle().Foreground(t.Subtext).Render(TruncateLabel(hints, m.width))
}

// Pillar returns the pillar currently shown
func (m Model) Pillar() model.Pillar {
	return m.pillar
}

// VisibleItems returns the rows of the current list
func (m Model) VisibleItems() []FeedItem {
	out := make([]FeedItem, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if fi, ok := it.(FeedItem); ok {
			out = append(out, fi)
		}
	}
	return out
}

// Status returns the footer status message
func (m Model) Status() string {
	return m.status
}

// Close detaches the scoped feeds from the selection
func (m Model) Close() {
	m.community.Close()
	m.exchange.Close()
	m.insight.Close()
}
