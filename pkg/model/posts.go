package model

import "strings"

// CommunityPost is a discussion topic on the community board
type CommunityPost struct {
	RegionTags
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Discussion  int    `json:"discussion"`
	CTA         string `json:"cta,omitempty"`
}

// ExchangeCategory groups exchange offers
type ExchangeCategory string

const (
	CategoryMentors     ExchangeCategory = "mentors"
	CategoryTAs         ExchangeCategory = "tas"
	CategoryMiniCourses ExchangeCategory = "mini-courses"
	CategoryResources   ExchangeCategory = "resources"
	CategoryLiterature  ExchangeCategory = "literature"
	CategoryWorkshops   ExchangeCategory = "workshops"
)

// ExchangeCategories lists the categories in display order
var ExchangeCategories = []ExchangeCategory{
	CategoryMentors,
	CategoryTAs,
	CategoryMiniCourses,
	CategoryResources,
	CategoryLiterature,
	CategoryWorkshops,
}

// IsValid returns true if the category is a recognized value
func (c ExchangeCategory) IsValid() bool {
	switch c {
	case CategoryMentors, CategoryTAs, CategoryMiniCourses, CategoryResources, CategoryLiterature, CategoryWorkshops:
		return true
	}
	return false
}

// Label returns the display name of the category
func (c ExchangeCategory) Label() string {
	switch c {
	case CategoryMentors:
		return "Mentor"
	case CategoryTAs:
		return "Teaching Assistant"
	case CategoryMiniCourses:
		return "Mini Course"
	case CategoryResources:
		return "Resource"
	case CategoryLiterature:
		return "Literature"
	case CategoryWorkshops:
		return "Workshop"
	}
	return "Exchange Offer"
}

// ParseExchangeCategory trims the input and falls back to mentors for
// anything unrecognized.
func ParseExchangeCategory(value string) ExchangeCategory {
	c := ExchangeCategory(strings.TrimSpace(value))
	if c.IsValid() {
		return c
	}
	return CategoryMentors
}

// ExchangePost is an offer on the exchange marketplace
type ExchangePost struct {
	RegionTags
	ID       string           `json:"id"`
	Category ExchangeCategory `json:"category"`
	Name     string           `json:"name,omitempty"`
	Title    string           `json:"title"`
	Summary  string           `json:"summary,omitempty"`
	// Topics is serialized as "tags"; the name avoids shadowing RegionTags.Tags.
	Topics []string `json:"tags,omitempty"`
	Reward int      `json:"reward,omitempty"`
	Status string   `json:"status,omitempty"`
}

// InsightPost is a question on the insight feedback channel
type InsightPost struct {
	RegionTags
	ID        string `json:"id"`
	Title     string `json:"title"`
	Question  string `json:"question,omitempty"`
	Audience  string `json:"audience,omitempty"`
	Responses int    `json:"responses"`
	Reward    int    `json:"reward,omitempty"`
}
