// Package linksvc assembles the rendered link rows for a record activation:
// template filtering, attribute mapping, placeholder substitution, activity
// flags and ordering.
package linksvc

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/lunyk/kindred/internal/activity"
	"github.com/lunyk/kindred/internal/apperr"
	"github.com/lunyk/kindred/internal/attrmap"
	"github.com/lunyk/kindred/internal/checksum"
	"github.com/lunyk/kindred/internal/models"
	"github.com/lunyk/kindred/internal/render"
	"github.com/lunyk/kindred/internal/suggest"
	"github.com/lunyk/kindred/internal/templates"
	"github.com/lunyk/kindred/internal/vars"
)

// Settings carries the per-instance rendering preferences.
type Settings struct {
	MiddleNames    vars.MiddleNameHandling
	Locale         string
	Render         render.Options
	AttributeLinks bool // promote direct URLs found in record attributes
	NoteLinks      bool // promote URLs found in record note texts
	InternetLinks  bool // promote the record's Internet-tab address list
}

// Service renders link rows for record activations. All failures on the
// activity side degrade to unmarked rows; rendering itself never fails.
type Service struct {
	registry *templates.Registry
	mapper   *attrmap.Mapper
	store    *activity.Store
	suggest  *suggest.Client
	settings Settings
	logger   *slog.Logger
}

// New creates a link service. store and suggestClient may be nil; the
// corresponding features are then disabled.
func New(registry *templates.Registry, mapper *attrmap.Mapper, store *activity.Store, suggestClient *suggest.Client, settings Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		mapper:   mapper,
		store:    store,
		suggest:  suggestClient,
		settings: settings,
		logger:   logger,
	}
}

// LinksFor renders every applicable template for the record and returns the
// rows in display order.
func (s *Service) LinksFor(rec models.Record) ([]models.LinkRow, error) {
	nav := rec.RecordNavType()
	rows, err := s.registry.Load()
	if err != nil {
		return nil, err
	}

	marks, hidden := s.activityState(models.RecordID(rec))
	base := vars.Normalize(rec, vars.Options{
		MiddleNames: s.settings.MiddleNames,
		Locale:      s.settings.Locale,
	})
	attrs := models.RecordAttributes(rec)

	var out []models.LinkRow
	for _, row := range rows {
		if row.NavType != nav || !row.Enabled {
			continue
		}
		link, ok := s.renderRow(row, nav, base, attrs)
		if !ok {
			continue
		}
		if _, hide := hidden[link.PatternHash]; hide {
			continue
		}
		mark := marks[link.URLHash]
		link.Visited = mark.Visited
		link.Saved = mark.Saved
		out = append(out, link)
	}

	if s.settings.AttributeLinks {
		out = append(out, s.attributeLinks(nav, attrs, marks, hidden)...)
	}
	if s.settings.NoteLinks {
		out = append(out, s.noteLinks(nav, models.RecordNotes(rec), marks, hidden)...)
	}
	if s.settings.InternetLinks {
		out = append(out, s.internetLinks(nav, models.RecordURLs(rec), marks, hidden)...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].SortKey < out[j].SortKey })
	return out, nil
}

// renderRow turns one template row into a link row. It returns ok=false when
// the row must be dropped: a UID template none of whose mapped variables
// received a value.
func (s *Service) renderRow(row models.TemplateRow, nav models.NavType, base vars.Variables, attrs []models.Attribute) (models.LinkRow, bool) {
	link := models.LinkRow{
		NavType:     nav,
		SourceType:  row.Locale,
		Locale:      row.Locale,
		Category:    row.Category,
		Pattern:     row.URL,
		Comment:     row.Comment,
		IsCustom:    row.IsCustom,
		PatternHash: checksum.Short([]byte(row.URL)),
	}

	if row.Static() {
		link.URL = row.URL
		link.DisplayURL = row.URL
		link.URLHash = checksum.Short([]byte(row.URL))
		link.SortKey = sortKey(link)
		return link, true
	}

	mapped := s.mapper.Matched(row.URL, nav)
	v := s.mapper.Augment(base, row.URL, nav, attrs)
	res := render.Render(row.URL, v, s.settings.Render)

	if len(mapped) > 0 {
		if !anyReplaced(res.Replaced, mapped) {
			return models.LinkRow{}, false
		}
		link.SourceType = models.SourceTypeUID
	}

	link.URL = res.URL
	link.DisplayURL = res.DisplayURL
	link.URLHash = checksum.Short([]byte(res.URL))
	link.Replaced = res.Replaced
	link.Empty = res.Empty
	link.Missing = res.Missing
	link.ReplacedCount = res.ReplacedCount()
	link.TotalCount = res.TotalCount()
	link.SortKey = sortKey(link)
	return link, true
}

var attrURLRe = regexp.MustCompile(`https?://\S+`)

// urlTrailingJunk is stripped from URLs extracted out of free text, where
// sentence punctuation tends to stick to the address.
const urlTrailingJunk = `.,;:!?)]}"'`

// directLink builds a ready static row for a URL taken from the record
// itself. ok is false when the URL is hidden by the user.
func directLink(nav models.NavType, sourceType, category, url string, marks map[string]activity.Mark, hidden map[string]struct{}) (models.LinkRow, bool) {
	hash := checksum.Short([]byte(url))
	if _, hide := hidden[hash]; hide {
		return models.LinkRow{}, false
	}
	mark := marks[hash]
	link := models.LinkRow{
		NavType:     nav,
		SourceType:  sourceType,
		Locale:      sourceType,
		Category:    category,
		URL:         url,
		DisplayURL:  url,
		Pattern:     url,
		URLHash:     hash,
		PatternHash: hash,
		Visited:     mark.Visited,
		Saved:       mark.Saved,
	}
	link.SortKey = sortKey(link)
	return link, true
}

// attributeLinks turns direct URLs found in the record's attributes into
// ready static rows.
func (s *Service) attributeLinks(nav models.NavType, attrs []models.Attribute, marks map[string]activity.Mark, hidden map[string]struct{}) []models.LinkRow {
	var out []models.LinkRow
	for _, attr := range attrs {
		url := attrURLRe.FindString(attr.Value)
		if url == "" {
			continue
		}
		url = strings.TrimRight(url, urlTrailingJunk)
		if link, ok := directLink(nav, models.SourceTypeAttribute, attr.Name, url, marks, hidden); ok {
			out = append(out, link)
		}
	}
	return out
}

// noteLinks extracts every URL from the record's note texts. Duplicates
// across notes collapse to one row.
func (s *Service) noteLinks(nav models.NavType, notes []string, marks map[string]activity.Mark, hidden map[string]struct{}) []models.LinkRow {
	var out []models.LinkRow
	seen := map[string]struct{}{}
	for _, note := range notes {
		for _, url := range attrURLRe.FindAllString(note, -1) {
			url = strings.TrimRight(url, urlTrailingJunk)
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			if link, ok := directLink(nav, models.SourceTypeNote, "Note", url, marks, hidden); ok {
				out = append(out, link)
			}
		}
	}
	return out
}

// internetLinks surfaces the record's Internet-tab address list verbatim.
func (s *Service) internetLinks(nav models.NavType, urls []string, marks map[string]activity.Mark, hidden map[string]struct{}) []models.LinkRow {
	var out []models.LinkRow
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if link, ok := directLink(nav, models.SourceTypeInternet, "Internet", url, marks, hidden); ok {
			out = append(out, link)
		}
	}
	return out
}

// Suggestions asks the provider for sites not yet covered by the enabled
// templates. An unconfigured provider yields apperr.ErrDisabled; provider
// failures degrade to an empty list.
func (s *Service) Suggestions(ctx context.Context) ([]models.Suggestion, error) {
	if !s.suggest.Enabled() {
		return nil, apperr.ErrDisabled
	}
	domains, err := s.registry.Domains()
	if err != nil {
		return nil, err
	}
	skipped := s.skippedDomains()

	req := suggest.Request{
		Locales:           sortedKeys(domains.Locales),
		ActiveDomains:     sortedKeys(domains.Domains),
		IrrelevantDomains: sortedKeys(skipped),
		IncludeGlobal:     domains.IncludeGlobal,
	}
	return suggest.Diff(domains.Domains, skipped, s.suggest.Fetch(ctx, req)), nil
}

func (s *Service) activityState(recordID string) (map[string]activity.Mark, map[string]struct{}) {
	marks := map[string]activity.Mark{}
	hidden := map[string]struct{}{}
	if s.store == nil {
		return marks, hidden
	}
	var err error
	if marks, err = s.store.AllMarks(); err != nil {
		s.logger.Warn("linksvc: loading link marks failed", slog.String("error", err.Error()))
		marks = map[string]activity.Mark{}
	}
	if hidden, err = s.store.HiddenFor(recordID); err != nil {
		s.logger.Warn("linksvc: loading hidden links failed", slog.String("error", err.Error()))
		hidden = map[string]struct{}{}
	}
	return marks, hidden
}

func (s *Service) skippedDomains() map[string]struct{} {
	if s.store == nil {
		return map[string]struct{}{}
	}
	skipped, err := s.store.SkippedDomains()
	if err != nil {
		s.logger.Warn("linksvc: loading skipped domains failed", slog.String("error", err.Error()))
		return map[string]struct{}{}
	}
	return skipped
}

func anyReplaced(replaced, wanted []string) bool {
	for _, name := range wanted {
		for _, r := range replaced {
			if r == name {
				return true
			}
		}
	}
	return false
}

// sortKey orders rows UID first, then locale files alphabetically, then
// COMMON, STATIC and the record's own direct links last.
func sortKey(link models.LinkRow) string {
	rank := "1"
	switch link.SourceType {
	case models.SourceTypeUID:
		rank = "0"
	case models.SourceTypeCommon:
		rank = "2"
	case models.SourceTypeStatic:
		rank = "3"
	case models.SourceTypeAttribute:
		rank = "4"
	case models.SourceTypeInternet:
		rank = "5"
	case models.SourceTypeNote:
		rank = "6"
	}
	return strings.Join([]string{rank, link.Locale, link.Category, link.Pattern}, "|")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
