package variant

import (
	"regexp"
	"testing"
)

func TestResolveHex(t *testing.T) {
	cases := map[string]string{
		"PU Negro":         "#1a1a1a",
		"Lino Turqueza":    "#1abc9c",
		"Felpa Gris Claro": "#b8b8b8",
		"Azul Oscuro":      "#1a4370",
		"Eco-cuero Camel":  "#c19a6b",
		"gris":             "#888888",
	}
	for name, want := range cases {
		if got := ResolveHex(name); got != want {
			t.Fatalf("ResolveHex(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestResolveHexFallbackIsStable(t *testing.T) {
	hexPattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	first := ResolveHex("Tornasol Espacial")
	if !hexPattern.MatchString(first) {
		t.Fatalf("fallback must be a hex color, got %q", first)
	}
	if again := ResolveHex("tornasol espacial"); again != first {
		t.Fatalf("fallback must be stable and case-insensitive: %s vs %s", first, again)
	}
}
