// Package testutil provides shared test helpers for setting up template
// directories and activity databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lunyk/kindred/internal/activity"
	"github.com/lunyk/kindred/internal/templates"
)

// TestDB creates a temporary SQLite activity store that is automatically
// cleaned up.
func TestDB(t *testing.T) *activity.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "kindred-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := activity.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestTemplateDir creates a temporary template directory populated with the
// given files (name -> CSV content) and returns it with a Store over it.
func TestTemplateDir(t *testing.T, files map[string]string) (string, *templates.Store) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, templates.NewStore(dir, "")
}
