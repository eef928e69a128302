// Package templates loads URL template rows from the tabular files on disk
// and keeps them fresh as the user edits them.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File describes one template CSV file available on disk.
type File struct {
	Name   string `json:"name"`
	Path   string `json:"-"`
	Locale string `json:"locale"`
	Custom bool   `json:"custom"`
}

// Store locates template files across the built-in and user directories.
// A user file with the same name shadows the built-in one.
type Store struct {
	builtinDir string
	userDir    string
}

// NewStore creates a Store over the two template directories. Either
// directory may be absent; it is simply skipped.
func NewStore(builtinDir, userDir string) *Store {
	return &Store{builtinDir: builtinDir, userDir: userDir}
}

// Files returns every CSV file found, sorted by name.
func (s *Store) Files() ([]File, error) {
	byName := make(map[string]File)
	for _, dir := range []struct {
		path   string
		custom bool
	}{{s.builtinDir, false}, {s.userDir, true}} {
		if dir.path == "" {
			continue
		}
		entries, err := os.ReadDir(dir.path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("templates: list %s: %w", dir.path, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
				continue
			}
			byName[e.Name()] = File{
				Name:   e.Name(),
				Path:   filepath.Join(dir.path, e.Name()),
				Locale: LocaleFromFilename(e.Name()),
				Custom: dir.custom,
			}
		}
	}

	files := make([]File, 0, len(byName))
	for _, f := range byName {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// LocaleFromFilename derives the locale tag from a template file name:
// "uk-links.csv" becomes "UK", "common-links.csv" becomes "COMMON".
func LocaleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ToUpper(strings.ReplaceAll(base, "-links", ""))
}
