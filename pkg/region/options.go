package region

import "github.com/stuxhq/stux/pkg/model"

// Option is a pickable entry for city and school selectors
type Option struct {
	ID          string
	Label       string
	Description string
	IsActive    bool
	Accent      string
	StatusLabel string
}

func optionFromRegion(r *model.Region) Option {
	return Option{
		ID:          r.ID,
		Label:       r.Label,
		Description: r.Tagline,
		IsActive:    r.IsActive(),
		Accent:      r.Accent,
		StatusLabel: r.StatusLabel,
	}
}

// OptionsFor builds options for ids, silently dropping unknown ones
func (r *Registry) OptionsFor(ids ...string) []Option {
	out := make([]Option, 0, len(ids))
	for _, id := range ids {
		if meta := r.Get(id); meta != nil {
			out = append(out, optionFromRegion(meta))
		}
	}
	return out
}

// CityOptions lists the known children of a country-level region
func (res *Resolver) CityOptions(id string) []Option {
	if NormalizeID(id) == "" {
		return nil
	}
	return res.reg.OptionsFor(res.ChildrenOf(id)...)
}

// SchoolOptions lists the known children of a city. A region without
// children is its own single school option.
func (res *Resolver) SchoolOptions(id string) []Option {
	if NormalizeID(id) == "" {
		return nil
	}
	if children := res.ChildrenOf(id); len(children) > 0 {
		return res.reg.OptionsFor(children...)
	}
	return res.reg.OptionsFor(id)
}
