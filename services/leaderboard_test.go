package services

import "testing"

func TestResolveNamesPrefersMirror(t *testing.T) {
	entries := []LeaderboardEntry{
		{ExternalUserID: "u1"},
		{ExternalUserID: "u2"},
		{ExternalUserID: "u3"},
	}
	mirror := map[string]string{
		"u1": "mirrored-one",
		"u3": "", // mirrored row with an empty username must not win
	}
	fallback := map[string]string{
		"u1": "profile-one",
		"u2": "profile-two",
		"u3": "profile-three",
	}

	resolveNames(entries, mirror, fallback)

	if entries[0].Name != "mirrored-one" {
		t.Errorf("u1 name = %q, want the mirrored username", entries[0].Name)
	}
	if entries[1].Name != "profile-two" {
		t.Errorf("u2 name = %q, want the profile fallback", entries[1].Name)
	}
	if entries[2].Name != "profile-three" {
		t.Errorf("u3 name = %q, empty mirror entry should fall back", entries[2].Name)
	}
}

func TestResolveNamesUnknownPlayer(t *testing.T) {
	entries := []LeaderboardEntry{{ExternalUserID: "ghost"}}
	resolveNames(entries, map[string]string{}, map[string]string{})
	if entries[0].Name != "" {
		t.Errorf("unknown player name = %q, want empty", entries[0].Name)
	}
}
