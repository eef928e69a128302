package activity_test

import (
	"errors"
	"testing"

	"github.com/lunyk/kindred/internal/apperr"
	"github.com/lunyk/kindred/internal/testutil"
)

func TestMarks(t *testing.T) {
	store := testutil.TestDB(t)

	if err := store.MarkVisited("hash1"); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkSaved("hash2"); err != nil {
		t.Fatal(err)
	}

	marks, err := store.AllMarks()
	if err != nil {
		t.Fatal(err)
	}
	if m := marks["hash1"]; !m.Visited || m.Saved {
		t.Errorf("hash1 = %+v", m)
	}
	if m := marks["hash2"]; m.Visited || !m.Saved {
		t.Errorf("hash2 = %+v", m)
	}
	if _, ok := marks["unknown"]; ok {
		t.Error("unknown hash should be absent")
	}
}

func TestMarks_BothFlagsOnOneHash(t *testing.T) {
	store := testutil.TestDB(t)

	if err := store.MarkVisited("h"); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkSaved("h"); err != nil {
		t.Fatal(err)
	}
	// Marking twice is a no-op, not an error.
	if err := store.MarkVisited("h"); err != nil {
		t.Fatal(err)
	}

	marks, _ := store.AllMarks()
	if m := marks["h"]; !m.Visited || !m.Saved {
		t.Errorf("h = %+v, want both flags", m)
	}
}

func TestHiddenLinks_RecordAndGlobalScope(t *testing.T) {
	store := testutil.TestDB(t)

	if err := store.HideLink("I0001", "recordhash"); err != nil {
		t.Fatal(err)
	}
	if err := store.HideLink("", "globalhash"); err != nil {
		t.Fatal(err)
	}

	hidden, err := store.HiddenFor("I0001")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := hidden["recordhash"]; !ok {
		t.Error("record-scoped hash missing")
	}
	if _, ok := hidden["globalhash"]; !ok {
		t.Error("global hash missing")
	}

	other, _ := store.HiddenFor("I0002")
	if _, ok := other["recordhash"]; ok {
		t.Error("record-scoped hash leaked to another record")
	}
	if _, ok := other["globalhash"]; !ok {
		t.Error("global hash should apply to every record")
	}
}

func TestUnhideLink(t *testing.T) {
	store := testutil.TestDB(t)

	if err := store.HideLink("I0001", "h"); err != nil {
		t.Fatal(err)
	}
	if err := store.UnhideLink("I0001", "h"); err != nil {
		t.Fatal(err)
	}

	hidden, _ := store.HiddenFor("I0001")
	if len(hidden) != 0 {
		t.Errorf("hidden = %v, want empty", hidden)
	}
}

func TestUnhideLink_UnknownHash(t *testing.T) {
	store := testutil.TestDB(t)

	err := store.UnhideLink("I0001", "never-hidden")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSkippedDomains(t *testing.T) {
	store := testutil.TestDB(t)

	if err := store.SkipDomain("noise.org"); err != nil {
		t.Fatal(err)
	}
	// Re-skipping is a no-op.
	if err := store.SkipDomain("noise.org"); err != nil {
		t.Fatal(err)
	}

	skipped, err := store.SkippedDomains()
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 1 {
		t.Errorf("skipped = %v", skipped)
	}

	if err := store.UnskipDomain("noise.org"); err != nil {
		t.Fatal(err)
	}
	skipped, _ = store.SkippedDomains()
	if len(skipped) != 0 {
		t.Errorf("skipped after unskip = %v", skipped)
	}
}

func TestUnskipDomain_UnknownDomain(t *testing.T) {
	store := testutil.TestDB(t)

	err := store.UnskipDomain("never-skipped.org")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
