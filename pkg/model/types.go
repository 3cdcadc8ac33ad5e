package model

import (
	"fmt"
	"strings"
)

// Region represents a node in the navigable hierarchy (country, city or university)
type Region struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	ShortLabel  string `json:"short_label,omitempty" yaml:"short_label,omitempty"`
	Tagline     string `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Accent      string `json:"accent,omitempty" yaml:"accent,omitempty"`
	ChipClass   string `json:"chip_class,omitempty" yaml:"chip_class,omitempty"`
	StatusLabel string `json:"status_label,omitempty" yaml:"status_label,omitempty"`

	// Active is nil when unset; only an explicit false marks a waitlisted region.
	Active *bool `json:"is_active,omitempty" yaml:"is_active,omitempty"`
	// ShowInSwitcher is nil when unset; only an explicit false hides the region.
	ShowInSwitcher *bool `json:"show_in_switcher,omitempty" yaml:"show_in_switcher,omitempty"`
}

// IsActive returns true unless the region is explicitly waitlisted
func (r Region) IsActive() bool {
	return r.Active == nil || *r.Active
}

// InSwitcher returns true unless the region is explicitly hidden from navigation
func (r Region) InSwitcher() bool {
	return r.ShowInSwitcher == nil || *r.ShowInSwitcher
}

// DisplayLabel prefers the short label, then the full label, then the id.
func (r Region) DisplayLabel() string {
	if r.ShortLabel != "" {
		return r.ShortLabel
	}
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// Clone creates a deep copy of the region
func (r Region) Clone() Region {
	clone := r
	if r.Active != nil {
		v := *r.Active
		clone.Active = &v
	}
	if r.ShowInSwitcher != nil {
		v := *r.ShowInSwitcher
		clone.ShowInSwitcher = &v
	}
	return clone
}

// Validate checks if the region definition is usable
func (r *Region) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("region ID cannot be empty")
	}
	if r.Label == "" && r.ShortLabel == "" {
		return fmt.Errorf("region %s needs a label", r.ID)
	}
	return nil
}

// Bool returns a pointer to v, for building regions in code.
func Bool(v bool) *bool {
	return &v
}

// RegionTags holds the region tagging of a content item. Items may carry a
// single region, a list of regions, both, or neither.
type RegionTags struct {
	Region  string   `json:"region,omitempty"`
	Regions []string `json:"regions,omitempty"`
}

// Tags returns the tags themselves so that any struct embedding RegionTags
// satisfies feed.Tagged.
func (t RegionTags) Tags() RegionTags {
	return t
}

// Pillar names one of the three content channels
type Pillar string

const (
	PillarCommunity Pillar = "community"
	PillarExchange  Pillar = "exchange"
	PillarInsight   Pillar = "insight"
)

// Pillars lists the channels in display order
var Pillars = []Pillar{PillarCommunity, PillarExchange, PillarInsight}

// IsValid returns true if the pillar is a recognized value
func (p Pillar) IsValid() bool {
	switch p {
	case PillarCommunity, PillarExchange, PillarInsight:
		return true
	}
	return false
}

// Title returns the display name of the pillar
func (p Pillar) Title() string {
	switch p {
	case PillarCommunity:
		return "Community"
	case PillarExchange:
		return "Exchange"
	case PillarInsight:
		return "Insight"
	}
	return string(p)
}

// Profile is the signed-in member as supplied by the profile collaborator
type Profile struct {
	Username string `mapstructure:"username" json:"username"`
	Name     string `mapstructure:"name" json:"name"`
	Role     string `mapstructure:"role" json:"role,omitempty"`
	Balance  int    `mapstructure:"balance" json:"balance"`
	Bio      string `mapstructure:"bio" json:"bio,omitempty"`
	// Region is the free-text home region the member declared.
	Region string `mapstructure:"region" json:"region,omitempty"`
}

// DisplayName returns the name, falling back to the username
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}
