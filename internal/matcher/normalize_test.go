package matcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase passthrough", in: "redline", want: "redline"},
		{name: "uppercase folded", in: "AK-47 | Redline", want: "ak 47 redline"},
		{name: "diacritics stripped", in: "AWP | Dragón Loré", want: "awp dragon lore"},
		{name: "fullwidth letters folded", in: "ＡＫ-４７ | Redline", want: "ak 47 redline"},
		{name: "punctuation collapsed", in: "M4A1-S :: Hot  Rod!!", want: "m4a1 s hot rod"},
		{name: "leading and trailing noise", in: "  ★ Karambit ★ ", want: "karambit"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "|| -- ||", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestNameMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		listing string
		want    bool
	}{
		{name: "case insensitive substring", pattern: "ak-47", listing: "AK-47 | Redline", want: true},
		{name: "diacritics folded", pattern: "dragon lore", listing: "AWP | Dragón Loré", want: true},
		{name: "fullwidth variant folded", pattern: "ak-47", listing: "ＡＫ-４７ | Redline", want: true},
		{name: "different weapon no match", pattern: "m4a4", listing: "AK-47 | Redline", want: false},
		{name: "skin name alone matches", pattern: "redline", listing: "AK-47 | Redline", want: true},
		{name: "hyphen is not elided", pattern: "ak47", listing: "AK-47 | Redline", want: false},
		{name: "full name matches itself", pattern: "AK-47 | Redline", listing: "AK-47 | Redline", want: true},
		{name: "empty pattern never matches", pattern: "", listing: "AK-47 | Redline", want: false},
		{name: "empty listing name", pattern: "ak-47", listing: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NameMatch(tt.pattern, tt.listing)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NameMatch(%q, %q) mismatch (-want +got):\n%s", tt.pattern, tt.listing, diff)
			}
		})
	}
}
