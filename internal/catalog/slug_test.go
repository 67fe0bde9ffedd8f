package catalog

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Deep Dub", "deep-dub"},
		{"already lowercase", "dubwise", "dubwise"},
		{"ampersand spelled out", "Roots, Rock & Reggae!", "roots-rock-and-reggae"},
		{"digits kept", "Session 042", "session-042"},
		{"leading and trailing junk", "  --Night Shift--  ", "night-shift"},
		{"umlauts transliterated", "Küche Royale", "kuche-royale"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
