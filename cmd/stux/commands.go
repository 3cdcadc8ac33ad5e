package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stuxhq/stux/pkg/export"
	"github.com/stuxhq/stux/pkg/feed"
	"github.com/stuxhq/stux/pkg/loader"
	"github.com/stuxhq/stux/pkg/menu"
	"github.com/stuxhq/stux/pkg/model"
	"github.com/stuxhq/stux/pkg/region"
	"github.com/stuxhq/stux/pkg/ui"
	"github.com/stuxhq/stux/pkg/watcher"
)

func pillarArgs() []string {
	out := make([]string, len(model.Pillars))
	for i, p := range model.Pillars {
		out[i] = string(p)
	}
	return out
}

func parsePillar(s string) (model.Pillar, error) {
	p := model.Pillar(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown pillar %q (want one of %s)", s, strings.Join(pillarArgs(), ", "))
	}
	return p, nil
}

func newBrowseCmd(a *app) *cobra.Command {
	var (
		pillar  string
		askHome bool
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive region browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePillar(pillar)
			if err != nil {
				return err
			}
			return a.browse(cmd, p, askHome)
		},
	}
	cmd.Flags().StringVar(&pillar, "pillar", string(model.PillarCommunity), "pillar to open first")
	cmd.Flags().BoolVar(&askHome, "ask-home", false, "ask for your home region before starting")
	cmd.Flags().Bool("watch", false, "reload feed files when they change (needs --feeds)")
	mustBind(a.v, "watch", cmd.Flags().Lookup("watch"))
	return cmd
}

func (a *app) browse(cmd *cobra.Command, pillar model.Pillar, askHome bool) error {
	ctx := cmd.Context()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		a.logger.Debug("stdout is not a terminal, printing feed instead")
		return a.printFeed(ctx, cmd.OutOrStdout(), pillar, false, "")
	}

	profile := a.cfg.Profile
	if askHome {
		home, err := a.askHomeRegion(profile.Region)
		if err != nil {
			return err
		}
		profile.Region = home
	}

	logger, closeLog, err := tuiLogger(a.cfg.Log.File, a.cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	feeds, err := a.loadFeeds(ctx, logger)
	if err != nil {
		return err
	}

	var reloads chan model.Pillar
	if a.cfg.Watch {
		if a.cfg.FeedsDir == "" {
			a.logger.Warn("--watch needs a feeds directory; built-in feeds never change")
		} else {
			reloads = make(chan model.Pillar, len(model.Pillars))
			w, err := watcher.NewFeedWatcher(a.cfg.FeedsDir, func(p model.Pillar) {
				select {
				case reloads <- p:
				default:
					logger.Debug("reload already queued", "pillar", p)
				}
			}, watcher.WithLogger(logger))
			if err != nil {
				return err
			}
			defer w.Close()
			go w.Run(ctx)
		}
	}

	m := ui.NewModel(ui.Options{
		Selection: a.sel,
		Feeds:     feeds,
		Profile:   profile,
		Pillar:    pillar,
		FeedsDir:  a.cfg.FeedsDir,
		Reloads:   reloads,
		Logger:    logger,
	})
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// askHomeRegion walks the hierarchy one level per prompt: country, then
// city, then school. Every step after the first can stop at the region
// picked so far.
func (a *app) askHomeRegion(current string) (string, error) {
	var rootIDs []string
	for _, r := range menu.New(a.sel).RootRegions() {
		rootIDs = append(rootIDs, r.ID)
	}
	opts := a.reg.OptionsFor(rootIDs...)

	titles := []string{"Where do you study?", "Which city?", "Which school?"}
	chosen := ""
	for depth := 0; len(opts) > 0 && depth < len(titles); depth++ {
		choices := huhOptions(opts)
		description := "Your home region is shown next to your name."
		if chosen != "" {
			label := chosen
			if r := a.reg.Get(chosen); r != nil {
				label = r.DisplayLabel()
			}
			choices = append([]huh.Option[string]{huh.NewOption("Anywhere in "+label, chosen)}, choices...)
			description = ""
		}

		pick := region.NormalizeID(current)
		err := huh.NewSelect[string]().
			Title(titles[depth]).
			Description(description).
			Options(choices...).
			Value(&pick).
			Run()
		if err != nil {
			return "", fmt.Errorf("home region prompt: %w", err)
		}
		if pick == chosen {
			break
		}
		chosen = pick
		opts = homeStepOptions(a.res, chosen, depth)
	}
	if chosen == "" {
		return current, nil
	}
	return chosen, nil
}

// homeStepOptions lists what to offer after picking id at depth: the cities
// of a country, then the schools of a city. nil means id needs no further
// step.
func homeStepOptions(res *region.Resolver, id string, depth int) []region.Option {
	switch depth {
	case 0:
		return res.CityOptions(id)
	case 1:
		schools := res.SchoolOptions(id)
		if len(schools) == 1 && schools[0].ID == region.NormalizeID(id) {
			return nil
		}
		return schools
	}
	return nil
}

func huhOptions(opts []region.Option) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(opts))
	for _, o := range opts {
		label := o.Label
		if !o.IsActive {
			label += " (waitlist)"
		}
		out = append(out, huh.NewOption(label, o.ID))
	}
	return out
}

func newFeedCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		file   string
	)
	cmd := &cobra.Command{
		Use:       "feed <pillar>",
		Short:     "Print a pillar's feed for --region and its subregions",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pillarArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePillar(args[0])
			if err != nil {
				return err
			}
			return a.printFeed(cmd.Context(), cmd.OutOrStdout(), p, asJSON, file)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&file, "file", "", "read the pillar from this JSONL file instead of the feeds directory")
	return cmd
}

// feedRow is the printable form of one projected entry
type feedRow struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Detail  string   `json:"detail,omitempty"`
	Region  string   `json:"region,omitempty"`
	Regions []string `json:"regions"`
}

func rowFor(id, title, detail string, regionIDs []string, meta *model.Region) feedRow {
	r := feedRow{ID: id, Title: title, Detail: detail, Regions: regionIDs}
	if meta != nil {
		r.Region = meta.DisplayLabel()
	}
	return r
}

func (a *app) feedRows(feeds *loader.Feeds, p model.Pillar) []feedRow {
	scope := a.sel.ActiveScope()
	var rows []feedRow
	switch p {
	case model.PillarCommunity:
		for _, e := range feed.Project(a.reg, feeds.Community, scope, nil) {
			rows = append(rows, rowFor(e.Item.ID, e.Item.Title,
				strconv.Itoa(e.Item.Discussion)+" in discussion", e.RegionIDs, e.Region))
		}
	case model.PillarExchange:
		for _, e := range feed.Project(a.reg, feeds.Exchange, scope, nil) {
			rows = append(rows, rowFor(e.Item.ID, e.Item.Title,
				e.Item.Category.Label(), e.RegionIDs, e.Region))
		}
	case model.PillarInsight:
		for _, e := range feed.Project(a.reg, feeds.Insight, scope, nil) {
			rows = append(rows, rowFor(e.Item.ID, e.Item.Title,
				strconv.Itoa(e.Item.Responses)+" responses", e.RegionIDs, e.Region))
		}
	}
	return rows
}

func (a *app) printFeed(ctx context.Context, w io.Writer, p model.Pillar, asJSON bool, file string) error {
	var (
		feeds *loader.Feeds
		err   error
	)
	if file != "" {
		feeds, err = loader.LoadPillarFile(file, p)
	} else {
		feeds, err = a.loadFeeds(ctx, a.logger)
	}
	if err != nil {
		return err
	}
	rows := a.feedRows(feeds, p)

	if asJSON {
		if rows == nil {
			rows = []feedRow{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintf(w, "%s in %s\n", p.Title(), a.sel.ActiveRegion().DisplayLabel())
	if len(rows) == 0 {
		fmt.Fprintln(w, "Nothing posted here yet.")
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("REGION", "TITLE", "DETAIL")
	for _, r := range rows {
		t.Row(r.Region, r.Title, r.Detail)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List known regions and their subregions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "LABEL", "STATUS", "ACTIVE", "SWITCHER", "SUBREGIONS")
			for _, r := range a.reg.List() {
				t.Row(r.ID, r.Label, r.StatusLabel,
					yesNo(r.IsActive()), yesNo(r.InSwitcher()),
					strings.Join(a.res.ChildrenOf(r.ID), ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			fmt.Fprintf(cmd.OutOrStdout(), "default: %s\n", a.reg.DefaultID())
			return nil
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func newScopeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scope <region>",
		Short: "Print a region and all regions beneath it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.reg.Has(args[0]) {
				a.logger.Warn("unknown region; scope holds only itself", "region", args[0])
			}
			for _, id := range a.res.ScopeOf(args[0]).IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newCitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cities <region>",
		Short: "List the cities of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printOptions(cmd.OutOrStdout(), "Cities in "+a.labelOf(args[0]), a.res.CityOptions(args[0]))
			return nil
		},
	}
}

func newSchoolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schools [region]",
		Short: "List the schools of a city, or the landing shortcuts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printOptions(cmd.OutOrStdout(), "Popular schools", a.reg.OptionsFor(a.shortcuts...))
				return nil
			}
			printOptions(cmd.OutOrStdout(), "Schools in "+a.labelOf(args[0]), a.res.SchoolOptions(args[0]))
			return nil
		},
	}
}

func (a *app) labelOf(id string) string {
	if r := a.reg.Get(id); r != nil {
		return r.DisplayLabel()
	}
	return strings.TrimSpace(id)
}

func printOptions(w io.Writer, header string, opts []region.Option) {
	fmt.Fprintln(w, header)
	if len(opts) == 0 {
		fmt.Fprintln(w, "None listed yet.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "STATUS", "ABOUT")
	for _, o := range opts {
		status := o.StatusLabel
		if status == "" && !o.IsActive {
			status = "Waitlist"
		}
		t.Row(o.ID, o.Label, status, o.Description)
	}
	fmt.Fprintln(w, t.Render())
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the region hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			problems := region.Validate(a.reg)
			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				edges := 0
				for _, children := range a.reg.Edges() {
					edges += len(children)
				}
				fmt.Fprintf(out, "ok: %d regions, %d edges\n", a.reg.Len(), edges)
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			return fmt.Errorf("%d hierarchy problem(s) found", len(problems))
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format    string
		highlight string
	)
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Render the region hierarchy to an SVG or PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active := highlight
			if active == "" {
				active = a.sel.ActiveRegionID()
			}
			err := export.SaveHierarchySnapshot(export.HierarchySnapshotOptions{
				Path:     args[0],
				Format:   format,
				Registry: a.reg,
				Resolver: a.res,
				ActiveID: active,
			})
			if err != nil {
				return err
			}
			a.logger.Info("hierarchy exported", "path", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "svg or png (default: from the file extension)")
	cmd.Flags().StringVar(&highlight, "highlight", "", "region to highlight with its scope (default: configured region)")
	return cmd
}
