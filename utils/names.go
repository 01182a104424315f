package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 32

// NormalizeDisplayName cleans up a player-entered name: trims, collapses
// internal whitespace, NFC-normalizes (composed accents compare and render
// consistently) and clips to the display limit. Returns "" for an
// effectively empty input.
func NormalizeDisplayName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Join(strings.Fields(name), " ")
	if len(name) > maxNameLength {
		runes := []rune(name)
		if len(runes) > maxNameLength {
			name = strings.TrimSpace(string(runes[:maxNameLength]))
		}
	}
	return name
}
