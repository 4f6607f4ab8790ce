package prefs

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	p := LoadFrom(path)
	p.SetString(KeyLastArtworkDir, "/srv/art")
	p.SetFloat("zoom", 1.5)
	p.SetInt(KeyWindowWidth, 1280)
	p.SetBool("dark_mode", true)

	if err := p.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	q := LoadFrom(path)
	if got := q.String(KeyLastArtworkDir); got != "/srv/art" {
		t.Errorf("string = %q, want /srv/art", got)
	}
	if got := q.Float("zoom", 0); got != 1.5 {
		t.Errorf("float = %v, want 1.5", got)
	}
	if got := q.Int(KeyWindowWidth, 0); got != 1280 {
		t.Errorf("int = %d, want 1280", got)
	}
	if !q.Bool("dark_mode", false) {
		t.Error("bool = false, want true")
	}
}

func TestFallbacks(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))

	if got := p.Float("missing", 2.5); got != 2.5 {
		t.Errorf("float fallback = %v, want 2.5", got)
	}
	if got := p.Int("missing", 7); got != 7 {
		t.Errorf("int fallback = %d, want 7", got)
	}
	if got := p.String("missing"); got != "" {
		t.Errorf("string fallback = %q, want empty", got)
	}
	if !p.Bool("missing", true) {
		t.Error("bool fallback = false, want true")
	}
}

func TestWrongTypeUsesFallback(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	p.SetString("mode", "freehand")

	if got := p.Float("mode", 3); got != 3 {
		t.Errorf("float over string = %v, want fallback 3", got)
	}
	if !p.Bool("mode", true) {
		t.Error("bool over string should fall back")
	}
}
