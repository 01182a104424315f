package models

import "testing"

func TestLevelCatalogOrdered(t *testing.T) {
	for i, lvl := range LevelCatalog {
		if lvl.ID != i+1 {
			t.Errorf("catalog[%d].ID = %d, want %d", i, lvl.ID, i+1)
		}
		if lvl.Slug == "" {
			t.Errorf("level %d has empty slug", lvl.ID)
		}
	}
}

func TestLevelSlugsUnique(t *testing.T) {
	seen := map[string]int{}
	for _, lvl := range LevelCatalog {
		if prev, ok := seen[lvl.Slug]; ok {
			t.Errorf("slug %q shared by levels %d and %d", lvl.Slug, prev, lvl.ID)
		}
		seen[lvl.Slug] = lvl.ID
	}
}

func TestLevelLookups(t *testing.T) {
	if LevelByID(0) != nil {
		t.Errorf("LevelByID(0) should be nil")
	}
	if LevelByID(TotalLevels()+1) != nil {
		t.Errorf("LevelByID past the end should be nil")
	}

	first := LevelByID(1)
	if first == nil {
		t.Fatalf("LevelByID(1) returned nil")
	}
	if got := LevelBySlug(first.Slug); got == nil || got.ID != 1 {
		t.Errorf("LevelBySlug(%q) did not round-trip to level 1", first.Slug)
	}
	if LevelBySlug("no-such-level") != nil {
		t.Errorf("unknown slug should return nil")
	}
}

func TestValidLevelID(t *testing.T) {
	cases := []struct {
		id   int
		want bool
	}{
		{0, false},
		{1, true},
		{TotalLevels(), true},
		{TotalLevels() + 1, false},
		{-3, false},
	}
	for _, c := range cases {
		if got := ValidLevelID(c.id); got != c.want {
			t.Errorf("ValidLevelID(%d) = %t, want %t", c.id, got, c.want)
		}
	}
}
