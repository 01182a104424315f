package utils

import (
	"strings"
	"testing"
)

func TestNormalizeDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Ada Lovelace  ", "Ada Lovelace"},
		{"Ada\t\tLovelace", "Ada Lovelace"},
		{"", ""},
		{"   ", ""},
		{"solo", "solo"},
	}
	for _, c := range cases {
		if got := NormalizeDisplayName(c.in); got != c.want {
			t.Errorf("NormalizeDisplayName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeDisplayNameClipsLength(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := NormalizeDisplayName(long)
	if len([]rune(got)) > 32 {
		t.Errorf("normalized name length = %d, want <= 32", len([]rune(got)))
	}
}

func TestNormalizeDisplayNameComposesAccents(t *testing.T) {
	// "é" as e + combining acute should normalize to the composed form.
	decomposed := "Re\u0301my"
	composed := "Rémy"
	if got := NormalizeDisplayName(decomposed); got != composed {
		t.Errorf("NormalizeDisplayName(%q) = %q, want %q", decomposed, got, composed)
	}
}
