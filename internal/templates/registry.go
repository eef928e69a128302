package templates

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/lunyk/kindred/internal/models"
)

// DomainsData is the aggregate view of the enabled template set used to
// shape suggestion requests: no record data, only locales and domains.
type DomainsData struct {
	Locales       map[string]struct{}
	Domains       map[string]struct{}
	IncludeGlobal bool
}

// Registry serves parsed template rows from the enabled files, caching
// between loads. Invalidate drops the cache after a file change on disk.
type Registry struct {
	store   *Store
	enabled []string
	logger  *slog.Logger

	mu    sync.Mutex
	cache []models.TemplateRow
}

// NewRegistry creates a Registry restricted to the enabled file names. An
// empty list enables every file on disk.
func NewRegistry(store *Store, enabledFiles []string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, enabled: enabledFiles, logger: logger}
}

// Invalidate drops the cached rows; the next Load re-reads the files.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

// Files returns every template file on disk together with the resolved
// enabled names. With no configured list every file is enabled, so the
// returned names then cover the whole listing.
func (r *Registry) Files() ([]File, []string, error) {
	files, err := r.store.Files()
	if err != nil {
		return nil, nil, err
	}
	if len(r.enabled) == 0 {
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name)
		}
		return files, names, nil
	}
	return files, r.enabled, nil
}

// Enabled reports whether the named file belongs to the enabled set.
func (r *Registry) Enabled(name string) bool {
	if len(r.enabled) == 0 {
		return true
	}
	for _, n := range r.enabled {
		if n == name {
			return true
		}
	}
	return false
}

func (r *Registry) enabledFiles() ([]File, error) {
	files, err := r.store.Files()
	if err != nil {
		return nil, err
	}
	if len(r.enabled) == 0 {
		return files, nil
	}
	allowed := make(map[string]struct{}, len(r.enabled))
	for _, name := range r.enabled {
		allowed[name] = struct{}{}
	}
	var out []File
	for _, f := range files {
		if _, ok := allowed[f.Name]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Load returns the rows of every enabled file. Files that fail to parse are
// skipped with a warning so one broken file cannot take down the rest.
func (r *Registry) Load() ([]models.TemplateRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache != nil {
		return r.cache, nil
	}

	files, err := r.enabledFiles()
	if err != nil {
		return nil, err
	}
	var rows []models.TemplateRow
	for _, f := range files {
		parsed, err := ParseFile(f, r.logger)
		if err != nil {
			r.logger.Warn("templates: skipping unreadable file",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			continue
		}
		rows = append(rows, parsed...)
	}
	r.cache = rows
	return rows, nil
}

// Domains aggregates the locales and URL domains of the enabled files. The
// COMMON file flips IncludeGlobal instead of contributing a locale.
func (r *Registry) Domains() (DomainsData, error) {
	data := DomainsData{
		Locales: make(map[string]struct{}),
		Domains: make(map[string]struct{}),
	}
	files, err := r.enabledFiles()
	if err != nil {
		return data, err
	}
	for _, f := range files {
		if f.Locale == models.SourceTypeCommon {
			data.IncludeGlobal = true
		} else if f.Locale != "" {
			data.Locales[f.Locale] = struct{}{}
		}
		rows, err := ParseFile(f, r.logger)
		if err != nil {
			continue
		}
		for _, row := range rows {
			if d := Domain(row.URL); d != "" {
				data.Domains[d] = struct{}{}
			}
		}
	}
	return data, nil
}

// Domain extracts the host part of a URL template. A value without a scheme
// is returned as-is.
func Domain(url string) string {
	rest := url
	if i := strings.Index(url, "//"); i >= 0 {
		rest = url[i+2:]
	}
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
