package app

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"cutline-studio/internal/cutline"
	"cutline-studio/internal/editor"
	"cutline-studio/internal/pricing"
)

func newTestState() *State {
	return NewState(cutline.DefaultConfig(), pricing.DefaultConfig())
}

// writeTestArtwork writes a small opaque PNG and returns its path.
func writeTestArtwork(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "art.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode artwork: %v", err)
	}
	return path
}

func squareShape(side int) []editor.ImagePoint {
	return []editor.ImagePoint{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side},
	}
}

func TestSetShapeProducesQuote(t *testing.T) {
	s := newTestState()

	var quoteEvents int
	s.On(EventQuoteUpdated, func(event EventType, data interface{}) {
		quoteEvents++
	})

	s.SetShape(squareShape(100))

	if quoteEvents != 1 {
		t.Fatalf("quote events = %d, want 1", quoteEvents)
	}
	q := s.Quote()
	if q == nil {
		t.Fatal("expected a quote after setting a valid shape")
	}
	if q.UnitPrice <= 0 {
		t.Errorf("unit price = %d, want positive", q.UnitPrice)
	}
	m := s.Metrics()
	if m == nil {
		t.Fatal("expected metrics after setting a valid shape")
	}
	// Square traced at 100px scaled to the default 50x50mm order.
	if m.AreaMM2 != 2500 {
		t.Errorf("area = %v mm2, want 2500", m.AreaMM2)
	}
}

func TestSetShapeTooSmallClearsQuote(t *testing.T) {
	s := newTestState()
	s.SetShape(squareShape(100))
	if s.Quote() == nil {
		t.Fatal("expected a quote before clearing")
	}

	s.SetShape(nil)

	if s.Quote() != nil {
		t.Error("quote should be cleared when the shape is removed")
	}
	if s.Metrics() != nil {
		t.Error("metrics should be cleared when the shape is removed")
	}
	if s.HasShape() {
		t.Error("HasShape should be false after clearing")
	}
}

func TestKeyringOrderAddsDrillingFee(t *testing.T) {
	s := newTestState()
	s.SetShape(squareShape(100))
	objetPrice := s.Quote().UnitPrice

	order := s.Order()
	order.Product = cutline.ProductKeyring
	s.SetOrder(order)

	keyringPrice := s.Quote().UnitPrice
	fee := cutline.DefaultConfig().DrillingFee
	if keyringPrice != objetPrice+fee {
		t.Errorf("keyring price = %d, want objet price %d plus fee %d", keyringPrice, objetPrice, fee)
	}
}

func TestLoadArtworkResetsShape(t *testing.T) {
	s := newTestState()
	s.SetShape(squareShape(100))

	var loaded int
	s.On(EventArtworkLoaded, func(event EventType, data interface{}) {
		loaded++
	})

	if err := s.LoadArtwork(writeTestArtwork(t)); err != nil {
		t.Fatalf("LoadArtwork: %v", err)
	}

	if loaded != 1 {
		t.Errorf("artwork events = %d, want 1", loaded)
	}
	if s.HasShape() {
		t.Error("loading new artwork should discard the traced shape")
	}
	if s.Artwork() == nil {
		t.Error("artwork should be set after loading")
	}
}

func TestLoadArtworkMissingFile(t *testing.T) {
	s := newTestState()
	if err := s.LoadArtwork(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing artwork file")
	}
}

func TestProjectSaveLoadRoundTrip(t *testing.T) {
	artPath := writeTestArtwork(t)

	s := newTestState()
	if err := s.LoadArtwork(artPath); err != nil {
		t.Fatalf("LoadArtwork: %v", err)
	}
	s.SetShape(squareShape(80))
	order := Order{
		Product:        cutline.ProductKeyring,
		HoleType:       cutline.HoleInternal,
		HolePosition:   cutline.PositionLeft,
		TargetWidthMM:  70,
		TargetHeightMM: 35,
		Quantity:       25,
	}
	s.SetOrder(order)

	projPath := filepath.Join(t.TempDir(), "session.cutline.json")
	if err := s.SaveProject(projPath); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if s.Modified() {
		t.Error("saving should clear the modified flag")
	}

	restored := newTestState()
	if err := restored.LoadProject(projPath); err != nil {
		t.Fatalf("LoadProject: %v", err)
	}

	if restored.Order() != order {
		t.Errorf("order = %+v, want %+v", restored.Order(), order)
	}
	if got := restored.Shape(); len(got) != 4 {
		t.Fatalf("shape length = %d, want 4", len(got))
	}
	if restored.Artwork() == nil || restored.Artwork().Path != artPath {
		t.Error("artwork should be reloaded from the saved path")
	}
	if restored.Quote() == nil {
		t.Error("loading a project with a shape should produce a quote")
	}
	if restored.Modified() {
		t.Error("a freshly loaded project should not be modified")
	}
}

func TestLoadProjectMissingArtwork(t *testing.T) {
	dir := t.TempDir()
	artPath := filepath.Join(dir, "gone.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	f, err := os.Create(artPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := newTestState()
	if err := s.LoadArtwork(artPath); err != nil {
		t.Fatalf("LoadArtwork: %v", err)
	}
	projPath := filepath.Join(dir, "session.cutline.json")
	if err := s.SaveProject(projPath); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	if err := os.Remove(artPath); err != nil {
		t.Fatal(err)
	}
	if err := newTestState().LoadProject(projPath); err == nil {
		t.Error("expected error when the project references missing artwork")
	}
}

func TestLoadProjectRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.cutline.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := newTestState().LoadProject(path); err == nil {
		t.Error("expected error for a project from a newer version")
	}
}
