package linksvc_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lunyk/kindred/internal/activity"
	"github.com/lunyk/kindred/internal/apperr"
	"github.com/lunyk/kindred/internal/attrmap"
	"github.com/lunyk/kindred/internal/linksvc"
	"github.com/lunyk/kindred/internal/models"
	"github.com/lunyk/kindred/internal/render"
	"github.com/lunyk/kindred/internal/suggest"
	"github.com/lunyk/kindred/internal/templates"
	"github.com/lunyk/kindred/internal/testutil"
	"github.com/lunyk/kindred/internal/vars"
)

const ukCSV = `"Navigation type","Category","Is enabled","URL","Comment"
People,Archives,1,https://archive.org/search?s={surname}&g={given},
People,Old,0,https://off.org/{surname},
Places,Maps,1,https://maps.org/{place},
`

const uidCSV = `"Navigation type","Category","Is enabled","URL","Comment"
People,Tree,1,https://tree.example/person/{fs_id},
`

const staticCSV = `"Navigation type","Category","Is enabled","URL","Comment"
People,Library,1,https://library.org/catalog?s={surname},
`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type env struct {
	svc      *linksvc.Service
	registry *templates.Registry
	store    *activity.Store
}

func newEnv(t *testing.T, files map[string]string, rules []attrmap.Rule, client *suggest.Client, settings linksvc.Settings) env {
	t.Helper()
	_, tstore := testutil.TestTemplateDir(t, files)
	db := testutil.TestDB(t)

	logger := discard()
	registry := templates.NewRegistry(tstore, nil, logger)
	if client == nil {
		client = suggest.NewClient("", "", "", 0, logger)
	}
	svc := linksvc.New(registry, attrmap.NewMapper(rules, logger), db, client, settings, logger)
	return env{svc: svc, registry: registry, store: db}
}

func defaultSettings() linksvc.Settings {
	return linksvc.Settings{
		MiddleNames: vars.MiddleNameSeparate,
		Locale:      "en",
		Render:      render.Options{Compactness: render.CompactNoAttributes},
	}
}

func TestLinksFor_FiltersNavAndEnabled(t *testing.T) {
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, defaultSettings())

	links, err := e.svc.LinksFor(&models.Person{Given: "John", Surname: "Smith"})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1 (disabled and Places rows filtered)", len(links))
	}
	l := links[0]
	if l.URL != "https://archive.org/search?s=Smith&g=John" {
		t.Errorf("URL = %q", l.URL)
	}
	if l.ReplacedCount != 2 || l.TotalCount != 2 {
		t.Errorf("counts = %d/%d", l.ReplacedCount, l.TotalCount)
	}
	if l.SourceType != "UK" || l.NavType != models.NavPerson {
		t.Errorf("source/nav = %q/%q", l.SourceType, l.NavType)
	}
}

func TestLinksFor_PlaceRecord(t *testing.T) {
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, defaultSettings())

	links, err := e.svc.LinksFor(&models.PlaceRecord{Place: &models.Place{Name: "Leeds"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 || links[0].URL != "https://maps.org/Leeds" {
		t.Errorf("links = %+v", links)
	}
}

func TestLinksFor_UIDPromotion(t *testing.T) {
	rules := []attrmap.Rule{
		{NavType: "People", Attribute: "FamilySearch ID", URLRegex: `tree\.example`, Variable: "fs_id"},
	}
	e := newEnv(t, map[string]string{"uid-links.csv": uidCSV}, rules, nil, defaultSettings())

	// Attribute present: row rendered and tagged UID.
	links, err := e.svc.LinksFor(&models.Person{
		Surname:    "Smith",
		Attributes: []models.Attribute{{Name: "FamilySearch ID", Value: "ABCD-123"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	if links[0].SourceType != models.SourceTypeUID {
		t.Errorf("source type = %q, want UID", links[0].SourceType)
	}
	if links[0].URL != "https://tree.example/person/ABCD-123" {
		t.Errorf("URL = %q", links[0].URL)
	}

	// Attribute absent: the row is dropped entirely.
	links, err = e.svc.LinksFor(&models.Person{Surname: "Smith"})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 0 {
		t.Errorf("links without attribute = %+v, want none", links)
	}
}

func TestLinksFor_StaticRowNotSubstituted(t *testing.T) {
	e := newEnv(t, map[string]string{"static-links.csv": staticCSV}, nil, nil, defaultSettings())

	links, err := e.svc.LinksFor(&models.Person{Surname: "Smith"})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	if links[0].URL != "https://library.org/catalog?s={surname}" {
		t.Errorf("static URL = %q, must stay verbatim", links[0].URL)
	}
	if links[0].SourceType != models.SourceTypeStatic {
		t.Errorf("source type = %q", links[0].SourceType)
	}
}

func TestLinksFor_VisitedFlag(t *testing.T) {
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, defaultSettings())
	person := &models.Person{Given: "John", Surname: "Smith"}

	links, _ := e.svc.LinksFor(person)
	if links[0].Visited {
		t.Fatal("fresh link should be unvisited")
	}
	if err := e.store.MarkVisited(links[0].URLHash); err != nil {
		t.Fatal(err)
	}

	links, _ = e.svc.LinksFor(person)
	if !links[0].Visited {
		t.Error("visited flag not reflected")
	}
}

func TestLinksFor_HiddenPatternSkipped(t *testing.T) {
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, defaultSettings())
	person := &models.Person{ID: "I0001", Given: "John", Surname: "Smith"}

	links, _ := e.svc.LinksFor(person)
	if len(links) != 1 {
		t.Fatalf("links = %d", len(links))
	}
	if err := e.store.HideLink("I0001", links[0].PatternHash); err != nil {
		t.Fatal(err)
	}

	links, _ = e.svc.LinksFor(person)
	if len(links) != 0 {
		t.Errorf("hidden link still present: %+v", links)
	}

	// Another record still sees the row.
	links, _ = e.svc.LinksFor(&models.Person{ID: "I0002", Given: "John", Surname: "Smith"})
	if len(links) != 1 {
		t.Errorf("record-scoped hide leaked: %d links", len(links))
	}
}

func TestLinksFor_AttributeLinks(t *testing.T) {
	settings := defaultSettings()
	settings.AttributeLinks = true
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, settings)

	links, err := e.svc.LinksFor(&models.Person{
		Given:   "John",
		Surname: "Smith",
		Attributes: []models.Attribute{
			{Name: "Profile", Value: "see https://geni.example/profile/123"},
			{Name: "Notes", Value: "no url here"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Fatalf("links = %d, want template row + attribute link", len(links))
	}
	attr := links[len(links)-1]
	if attr.SourceType != models.SourceTypeAttribute || attr.URL != "https://geni.example/profile/123" {
		t.Errorf("attribute link = %+v", attr)
	}
	if attr.Category != "Profile" {
		t.Errorf("category = %q", attr.Category)
	}
}

func TestLinksFor_NoteLinks(t *testing.T) {
	settings := defaultSettings()
	settings.NoteLinks = true
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, settings)

	links, err := e.svc.LinksFor(&models.Person{
		Given:   "John",
		Surname: "Smith",
		Notes: []string{
			"found on https://forum.example/thread/9).",
			"also see https://forum.example/thread/9 again",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Fatalf("links = %d, want template row + note link", len(links))
	}
	note := links[len(links)-1]
	if note.SourceType != models.SourceTypeNote {
		t.Errorf("source type = %q", note.SourceType)
	}
	// Trailing punctuation is stripped and the duplicate collapses.
	if note.URL != "https://forum.example/thread/9" {
		t.Errorf("note URL = %q", note.URL)
	}
}

func TestLinksFor_NoteLinkHiddenAndMarked(t *testing.T) {
	settings := defaultSettings()
	settings.NoteLinks = true
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, settings)
	person := &models.Person{
		ID:      "I0001",
		Surname: "Smith",
		Notes:   []string{"https://forum.example/thread/9"},
	}

	links, _ := e.svc.LinksFor(person)
	note := links[len(links)-1]
	if err := e.store.MarkVisited(note.URLHash); err != nil {
		t.Fatal(err)
	}
	links, _ = e.svc.LinksFor(person)
	if !links[len(links)-1].Visited {
		t.Error("visited mark not reflected on note link")
	}

	if err := e.store.HideLink("I0001", note.PatternHash); err != nil {
		t.Fatal(err)
	}
	links, _ = e.svc.LinksFor(person)
	for _, l := range links {
		if l.SourceType == models.SourceTypeNote {
			t.Errorf("hidden note link still present: %+v", l)
		}
	}
}

func TestLinksFor_InternetLinks(t *testing.T) {
	settings := defaultSettings()
	settings.InternetLinks = true
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, settings)

	links, err := e.svc.LinksFor(&models.Person{
		Surname: "Smith",
		URLs:    []string{"https://smith.example/home", "  ", ""},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Fatalf("links = %d, want template row + internet link", len(links))
	}
	inet := links[len(links)-1]
	if inet.SourceType != models.SourceTypeInternet || inet.URL != "https://smith.example/home" {
		t.Errorf("internet link = %+v", inet)
	}
}

func TestLinksFor_DirectLinksOffByDefault(t *testing.T) {
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, defaultSettings())

	links, err := e.svc.LinksFor(&models.Person{
		Surname: "Smith",
		Notes:   []string{"https://forum.example/t/1"},
		URLs:    []string{"https://smith.example/home"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range links {
		if l.SourceType == models.SourceTypeNote || l.SourceType == models.SourceTypeInternet {
			t.Errorf("direct link surfaced with the feature off: %+v", l)
		}
	}
}

func TestLinksFor_SortOrder(t *testing.T) {
	rules := []attrmap.Rule{
		{NavType: "People", Attribute: "FamilySearch ID", URLRegex: `tree\.example`, Variable: "fs_id"},
	}
	settings := defaultSettings()
	settings.AttributeLinks = true
	settings.NoteLinks = true
	settings.InternetLinks = true
	e := newEnv(t, map[string]string{
		"uk-links.csv":     ukCSV,
		"uid-links.csv":    uidCSV,
		"static-links.csv": staticCSV,
	}, rules, nil, settings)

	links, err := e.svc.LinksFor(&models.Person{
		Given:   "John",
		Surname: "Smith",
		Attributes: []models.Attribute{
			{Name: "FamilySearch ID", Value: "ABCD-123"},
			{Name: "Profile", Value: "https://geni.example/p/1"},
		},
		Notes: []string{"see https://forum.example/t/1"},
		URLs:  []string{"https://smith.example/home"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 6 {
		t.Fatalf("links = %d, want 6", len(links))
	}
	order := []string{
		models.SourceTypeUID,
		"UK",
		models.SourceTypeStatic,
		models.SourceTypeAttribute,
		models.SourceTypeInternet,
		models.SourceTypeNote,
	}
	for i, want := range order {
		if links[i].SourceType != want {
			t.Errorf("links[%d].SourceType = %q, want %q", i, links[i].SourceType, want)
		}
	}
}

func TestSuggestions(t *testing.T) {
	var gotReq suggest.Request
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode([]models.Suggestion{
			{Domain: "archive.org"}, // covered by a template
			{Domain: "noise.org"},   // skipped by the user
			{Domain: "fresh.org"},   // genuinely new
		})
	}))
	defer provider.Close()

	client := suggest.NewClient(provider.URL, "key", "", time.Second, discard())
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, client, defaultSettings())

	if err := e.store.SkipDomain("noise.org"); err != nil {
		t.Fatal(err)
	}

	got, err := e.svc.Suggestions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Domain != "fresh.org" {
		t.Errorf("suggestions = %+v", got)
	}

	// The request carries aggregates only, never record data.
	if len(gotReq.Locales) != 1 || gotReq.Locales[0] != "UK" {
		t.Errorf("locales = %v", gotReq.Locales)
	}
	found := false
	for _, d := range gotReq.ActiveDomains {
		if d == "archive.org" {
			found = true
		}
	}
	if !found {
		t.Errorf("active domains = %v", gotReq.ActiveDomains)
	}
	if len(gotReq.IrrelevantDomains) != 1 || gotReq.IrrelevantDomains[0] != "noise.org" {
		t.Errorf("irrelevant domains = %v", gotReq.IrrelevantDomains)
	}
}

func TestSuggestions_ProviderFailureYieldsEmpty(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer provider.Close()

	client := suggest.NewClient(provider.URL, "key", "", time.Second, discard())
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, client, defaultSettings())

	got, err := e.svc.Suggestions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("suggestions = %+v, want none", got)
	}
}

func TestSuggestions_UnconfiguredProvider(t *testing.T) {
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, defaultSettings())

	_, err := e.svc.Suggestions(context.Background())
	if !errors.Is(err, apperr.ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestLinksFor_ShortDisplayURL(t *testing.T) {
	settings := defaultSettings()
	settings.Render = render.Options{Compactness: render.Shortest, ShowShortURL: true}
	e := newEnv(t, map[string]string{"uk-links.csv": ukCSV}, nil, nil, settings)

	links, _ := e.svc.LinksFor(&models.Person{Given: "John", Surname: "Smith"})
	if links[0].DisplayURL != "archive.org/search" {
		t.Errorf("DisplayURL = %q", links[0].DisplayURL)
	}
	if links[0].URL != "https://archive.org/search?s=Smith&g=John" {
		t.Errorf("URL must stay full: %q", links[0].URL)
	}
}

// Ensure file paths in errors do not break on odd template dirs.
func TestLinksFor_UnreadableFileSkipped(t *testing.T) {
	dir, tstore := testutil.TestTemplateDir(t, map[string]string{"uk-links.csv": ukCSV})
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err == nil {
		// A directory with a .csv suffix is ignored by the store listing.
		db := testutil.TestDB(t)
		logger := discard()
		registry := templates.NewRegistry(tstore, nil, logger)
		svc := linksvc.New(registry, attrmap.NewMapper(nil, logger), db,
			suggest.NewClient("", "", "", 0, logger), defaultSettings(), logger)
		links, err := svc.LinksFor(&models.Person{Surname: "Smith"})
		if err != nil {
			t.Fatal(err)
		}
		if len(links) != 1 {
			t.Errorf("links = %d, want 1", len(links))
		}
	}
}
