package ui

import (
	"fmt"
	"strings"

	"github.com/stuxhq/stux/pkg/feed"
	"github.com/stuxhq/stux/pkg/model"
)

// FeedItem wraps a projected feed entry to implement list.Item
type FeedItem struct {
	Pillar    model.Pillar
	ID        string
	Heading   string
	Meta      string
	Body      string
	Region    *model.Region
	RegionIDs []string
}

func (i FeedItem) Title() string {
	return i.Heading
}

func (i FeedItem) Description() string {
	return i.Meta
}

func (i FeedItem) FilterValue() string {
	return i.Heading + " " + i.ID + " " + strings.Join(i.RegionIDs, " ")
}

// Markdown renders the item for the detail pane
func (i FeedItem) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", i.Heading)
	if i.Meta != "" {
		fmt.Fprintf(&b, "_%s_\n\n", i.Meta)
	}
	if i.Body != "" {
		b.WriteString(i.Body)
		b.WriteString("\n\n")
	}
	if i.Region != nil {
		fmt.Fprintf(&b, "**Region:** %s", i.Region.Label)
		if i.Region.Tagline != "" {
			fmt.Fprintf(&b, " · %s", i.Region.Tagline)
		}
		b.WriteString("\n\n")
	}
	if len(i.RegionIDs) > 1 {
		fmt.Fprintf(&b, "**Tagged:** `%s`\n", strings.Join(i.RegionIDs, "`, `"))
	}
	return b.String()
}

// ClipboardText is the plain-text form copied with the copy key
func (i FeedItem) ClipboardText() string {
	parts := []string{i.Heading}
	if i.Meta != "" {
		parts = append(parts, i.Meta)
	}
	if i.Body != "" {
		parts = append(parts, i.Body)
	}
	return strings.Join(parts, "\n")
}

func communityItem(e feed.Entry[model.CommunityPost]) FeedItem {
	p := e.Item
	meta := fmt.Sprintf("%d in discussion", p.Discussion)
	if p.CTA != "" {
		meta += " • " + p.CTA
	}
	return FeedItem{
		Pillar:    model.PillarCommunity,
		ID:        p.ID,
		Heading:   p.Title,
		Meta:      meta,
		Body:      p.Description,
		Region:    e.Region,
		RegionIDs: e.RegionIDs,
	}
}

func exchangeItem(e feed.Entry[model.ExchangePost]) FeedItem {
	p := e.Item
	meta := p.Category.Label()
	if p.Name != "" {
		meta += " • " + p.Name
	}
	if p.Reward > 0 {
		meta += fmt.Sprintf(" • %d credits", p.Reward)
	}
	body := p.Summary
	if len(p.Topics) > 0 {
		body += "\n\n" + "#" + strings.Join(p.Topics, " #")
	}
	return FeedItem{
		Pillar:    model.PillarExchange,
		ID:        p.ID,
		Heading:   p.Title,
		Meta:      meta,
		Body:      strings.TrimSpace(body),
		Region:    e.Region,
		RegionIDs: e.RegionIDs,
	}
}

func insightItem(e feed.Entry[model.InsightPost]) FeedItem {
	p := e.Item
	meta := fmt.Sprintf("%d responses", p.Responses)
	if p.Audience != "" {
		meta = p.Audience + " • " + meta
	}
	if p.Reward > 0 {
		meta += fmt.Sprintf(" • %d credits", p.Reward)
	}
	return FeedItem{
		Pillar:    model.PillarInsight,
		ID:        p.ID,
		Heading:   p.Title,
		Meta:      meta,
		Body:      p.Question,
		Region:    e.Region,
		RegionIDs: e.RegionIDs,
	}
}
