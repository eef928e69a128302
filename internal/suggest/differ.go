// Package suggest shapes suggestion-provider requests and reconciles
// responses against the domains already covered by active templates.
package suggest

import "github.com/lunyk/kindred/internal/models"

// Request is the full payload sent to the suggestion provider. It carries
// aggregate domain and locale sets only, never record data.
type Request struct {
	Locales           []string `json:"locales"`
	ActiveDomains     []string `json:"active_domains"`
	IrrelevantDomains []string `json:"irrelevant_domains"`
	IncludeGlobal     bool     `json:"include_global"`
}

// Diff filters out suggestions whose domain is already covered by an active
// template or marked irrelevant by the user. The remainder keeps the
// provider's order.
func Diff(activeDomains, irrelevantDomains map[string]struct{}, suggestions []models.Suggestion) []models.Suggestion {
	var out []models.Suggestion
	for _, s := range suggestions {
		if _, ok := activeDomains[s.Domain]; ok {
			continue
		}
		if _, ok := irrelevantDomains[s.Domain]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}
