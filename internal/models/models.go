// Package models defines the domain types for Kindred.
package models

import "strings"

// NavType identifies the kind of genealogical record a template targets.
type NavType string

// Supported navigation types. The values match the "Navigation type" column
// of the template CSV files.
const (
	NavPerson NavType = "People"
	NavFamily NavType = "Families"
	NavPlace  NavType = "Places"
	NavSource NavType = "Sources"
)

// AllNavTypes lists every supported navigation type in display order.
var AllNavTypes = []NavType{NavPerson, NavFamily, NavPlace, NavSource}

// ParseNavType maps a raw string (CSV value or URL segment) to a NavType.
// Matching is case-insensitive and accepts the singular form used in API paths.
func ParseNavType(raw string) (NavType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "people", "person":
		return NavPerson, true
	case "families", "family":
		return NavFamily, true
	case "places", "place":
		return NavPlace, true
	case "sources", "source":
		return NavSource, true
	}
	return "", false
}

// Source types tag where a link row came from. Regular rows carry the locale
// code of their CSV file instead.
const (
	SourceTypeCommon    = "COMMON"
	SourceTypeUID       = "UID"
	SourceTypeStatic    = "STATIC"
	SourceTypeAttribute = "ATTR"
	SourceTypeInternet  = "INTERNET"
	SourceTypeNote      = "NOTE"
)

// TemplateRow is one parsed row of a template CSV file.
type TemplateRow struct {
	NavType  NavType `json:"nav_type"`
	Locale   string  `json:"locale"`
	Category string  `json:"category"`
	Enabled  bool    `json:"enabled"`
	URL      string  `json:"url"`
	Comment  string  `json:"comment,omitempty"`
	IsCustom bool    `json:"is_custom"`
}

// Static reports whether the row's URL is a ready link that must not be run
// through placeholder substitution.
func (t TemplateRow) Static() bool {
	return t.Locale == SourceTypeStatic || t.Locale == SourceTypeAttribute
}

// Suggestion is one external resource returned by the suggestion provider.
type Suggestion struct {
	Domain      string `json:"domain"`
	Locale      string `json:"locale,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// LinkRow is a fully rendered link ready for presentation.
type LinkRow struct {
	NavType       NavType  `json:"nav_type"`
	SourceType    string   `json:"source_type"`
	Locale        string   `json:"locale,omitempty"`
	Category      string   `json:"category"`
	URL           string   `json:"url"`
	DisplayURL    string   `json:"display_url"`
	Pattern       string   `json:"pattern"`
	URLHash       string   `json:"url_hash"`
	PatternHash   string   `json:"pattern_hash"`
	Comment       string   `json:"comment,omitempty"`
	Replaced      []string `json:"replaced"`
	Empty         []string `json:"empty"`
	Missing       []string `json:"missing"`
	ReplacedCount int      `json:"replaced_count"`
	TotalCount    int      `json:"total_count"`
	Visited       bool     `json:"visited"`
	Saved         bool     `json:"saved"`
	IsCustom      bool     `json:"is_custom"`
	SortKey       string   `json:"-"`
}
