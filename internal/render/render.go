// Package render substitutes record variables into URL templates and applies
// the configured URL compactness post-processing.
package render

import (
	"regexp"
	"strings"

	"github.com/lunyk/kindred/internal/vars"
)

// Compactness selects how aggressively a rendered URL is trimmed for display.
type Compactness string

// Compactness levels, most aggressive first.
const (
	Shortest            Compactness = "shortest"
	CompactNoAttributes Compactness = "compact_no_attributes"
	CompactWithAttrs    Compactness = "compact_with_attributes"
	Long                Compactness = "long"
)

// ParseCompactness maps a raw config value to a level, defaulting to
// CompactNoAttributes.
func ParseCompactness(raw string) Compactness {
	switch Compactness(strings.ToLower(strings.TrimSpace(raw))) {
	case Shortest:
		return Shortest
	case CompactWithAttrs:
		return CompactWithAttrs
	case Long:
		return Long
	default:
		return CompactNoAttributes
	}
}

// Options carries the display post-processing settings.
type Options struct {
	Compactness       Compactness
	ShowShortURL      bool
	PrefixReplacement string // prepended where a scheme/www prefix was stripped
}

// Result is the outcome of rendering one template.
type Result struct {
	// URL is the template with every known placeholder substituted.
	URL string
	// DisplayURL is URL after compactness trimming.
	DisplayURL string
	// Replaced lists placeholders substituted with a non-empty value, in
	// order of first appearance.
	Replaced []string
	// Empty lists placeholders whose variable exists but is empty.
	Empty []string
	// Missing lists placeholders with no variable defined for this
	// navigation type; they stay in the URL as literal text.
	Missing []string
}

// ReplacedCount returns the number of placeholders that received a value.
func (r Result) ReplacedCount() int { return len(r.Replaced) }

// TotalCount returns the number of distinct placeholders in the template.
func (r Result) TotalCount() int { return len(r.Replaced) + len(r.Empty) + len(r.Missing) }

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

var prefixesToTrim = []string{"https://www.", "http://www.", "https://", "http://"}

// Render substitutes variables into template and applies opts. Placeholders
// without a defined variable are left untouched; rendering never fails.
func Render(template string, v vars.Variables, opts Options) Result {
	res := Result{}
	seen := map[string]struct{}{}

	res.URL = placeholderRe.ReplaceAllStringFunc(template, func(tok string) string {
		name := tok[1 : len(tok)-1]
		value, ok := v[name]
		if !ok {
			res.Missing = track(res.Missing, seen, name)
			return tok
		}
		if value == "" {
			res.Empty = track(res.Empty, seen, name)
			return ""
		}
		res.Replaced = track(res.Replaced, seen, name)
		return value
	})

	res.DisplayURL = res.URL
	if opts.ShowShortURL {
		res.DisplayURL = compact(res.URL, opts)
	}
	return res
}

func track(list []string, seen map[string]struct{}, name string) []string {
	if _, dup := seen[name]; dup {
		return list
	}
	seen[name] = struct{}{}
	return append(list, name)
}

func compact(url string, opts Options) string {
	switch opts.Compactness {
	case Long:
		return url
	case CompactNoAttributes:
		return stripQuery(url)
	case CompactWithAttrs:
		return stripEmptyParams(url)
	case Shortest:
		return stripQuery(trimPrefix(url, opts.PrefixReplacement))
	}
	return url
}

func stripQuery(url string) string {
	if i := strings.Index(url, "?"); i >= 0 {
		return url[:i]
	}
	return url
}

// stripEmptyParams drops query parameters whose value is empty, preserving
// the order of the rest.
func stripEmptyParams(url string) string {
	i := strings.Index(url, "?")
	if i < 0 {
		return url
	}
	base, query := url[:i], url[i+1:]
	var kept []string
	for _, param := range strings.Split(query, "&") {
		if param == "" {
			continue
		}
		if j := strings.Index(param, "="); j >= 0 && param[j+1:] == "" {
			continue
		}
		kept = append(kept, param)
	}
	if len(kept) == 0 {
		return base
	}
	return base + "?" + strings.Join(kept, "&")
}

func trimPrefix(url, replacement string) string {
	for _, prefix := range prefixesToTrim {
		if strings.HasPrefix(url, prefix) {
			return replacement + url[len(prefix):]
		}
	}
	return url
}
