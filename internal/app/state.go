// Package app holds the shared application state for Cutline Studio and the
// event bus that keeps the UI panels in sync with it.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cutline-studio/internal/analyzer"
	"cutline-studio/internal/artwork"
	"cutline-studio/internal/cutline"
	"cutline-studio/internal/editor"
	"cutline-studio/internal/pricing"
	"cutline-studio/pkg/geometry"
)

// EventType identifies a category of state change.
type EventType string

const (
	EventArtworkLoaded EventType = "artwork_loaded"
	EventShapeChanged  EventType = "shape_changed"
	EventOrderChanged  EventType = "order_changed"
	EventQuoteUpdated  EventType = "quote_updated"
	EventProjectSaved  EventType = "project_saved"
	EventProjectLoaded EventType = "project_loaded"
)

// EventListener receives notifications about state changes.
type EventListener func(event EventType, data interface{})

// Order holds the parameters the customer chose for the product being quoted.
type Order struct {
	Product        cutline.ProductType  `json:"product"`
	HoleType       cutline.HoleType     `json:"hole_type"`
	HolePosition   cutline.HolePosition `json:"hole_position"`
	TargetWidthMM  float64              `json:"target_width_mm"`
	TargetHeightMM float64              `json:"target_height_mm"`
	Quantity       int                  `json:"quantity"`
}

// DefaultOrder returns order parameters for a plain 50x50mm objet.
func DefaultOrder() Order {
	return Order{
		Product:        cutline.ProductObjet,
		HoleType:       cutline.HoleRing,
		HolePosition:   cutline.PositionTop,
		TargetWidthMM:  50,
		TargetHeightMM: 50,
		Quantity:       1,
	}
}

// State is the single source of truth for a Cutline Studio session: the
// loaded artwork, the traced cutting shape, the order parameters, and the
// quote derived from them. All access is safe for concurrent use.
type State struct {
	mu sync.RWMutex

	projectPath string
	modified    bool

	art   *artwork.Artwork
	shape []editor.ImagePoint
	order Order

	metrics *analyzer.ShapeMetrics
	quote   *pricing.Quote

	cutCfg   cutline.Config
	priceCfg pricing.Config
	pricer   *pricing.Service

	listeners map[EventType][]EventListener
}

// NewState creates empty application state using the given configurations.
func NewState(cutCfg cutline.Config, priceCfg pricing.Config) *State {
	return &State{
		order:     DefaultOrder(),
		cutCfg:    cutCfg,
		priceCfg:  priceCfg,
		pricer:    pricing.NewService(priceCfg),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers a listener for the given event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit notifies all listeners registered for the given event type.
// Listeners run on the calling goroutine.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := make([]EventListener, len(s.listeners[event]))
	copy(listeners, s.listeners[event])
	s.mu.RUnlock()

	for _, l := range listeners {
		l(event, data)
	}
}

// LoadArtwork loads the image at path and makes it the session artwork.
// Any previously traced shape is discarded.
func (s *State) LoadArtwork(path string) error {
	art, err := artwork.Load(path)
	if err != nil {
		return fmt.Errorf("loading artwork: %w", err)
	}

	s.mu.Lock()
	s.art = art
	s.shape = nil
	s.metrics = nil
	s.quote = nil
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventArtworkLoaded, art)
	return nil
}

// Artwork returns the currently loaded artwork, or nil.
func (s *State) Artwork() *artwork.Artwork {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.art
}

// SetShape stores the traced cutting shape in image coordinates and refreshes
// the quote. Passing an empty slice clears the shape.
func (s *State) SetShape(points []editor.ImagePoint) {
	s.mu.Lock()
	s.shape = append([]editor.ImagePoint(nil), points...)
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventShapeChanged, points)
	s.refreshQuote()
}

// Shape returns a copy of the traced cutting shape.
func (s *State) Shape() []editor.ImagePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]editor.ImagePoint(nil), s.shape...)
}

// HasShape reports whether a usable cutting shape has been traced.
func (s *State) HasShape() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shape) >= 3
}

// Order returns the current order parameters.
func (s *State) Order() Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order
}

// SetOrder replaces the order parameters and refreshes the quote.
func (s *State) SetOrder(order Order) {
	s.mu.Lock()
	s.order = order
	s.modified = true
	s.mu.Unlock()

	s.Emit(EventOrderChanged, order)
	s.refreshQuote()
}

// Metrics returns the shape metrics behind the current quote, or nil.
func (s *State) Metrics() *analyzer.ShapeMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// Quote returns the current quote, or nil when no shape is traced.
func (s *State) Quote() *pricing.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quote
}

// CuttingConfig returns the cutting line configuration.
func (s *State) CuttingConfig() cutline.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cutCfg
}

// Modified reports whether the session has unsaved changes.
func (s *State) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// ProjectPath returns the path the session was last saved to or loaded from.
func (s *State) ProjectPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectPath
}

// refreshQuote recomputes metrics and price from the current shape and order.
// With no usable shape the quote is cleared.
func (s *State) refreshQuote() {
	s.mu.Lock()

	if len(s.shape) < 3 {
		s.metrics = nil
		s.quote = nil
		s.mu.Unlock()
		s.Emit(EventQuoteUpdated, nil)
		return
	}

	pts := make([]geometry.Point2D, len(s.shape))
	for i, p := range s.shape {
		pts[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
	}

	m, ok := analyzer.MetricsFromPoints(pts)
	if !ok {
		s.metrics = nil
		s.quote = nil
		s.mu.Unlock()
		s.Emit(EventQuoteUpdated, nil)
		return
	}
	m = analyzer.ConvertToMM(m, s.order.TargetWidthMM, s.order.TargetHeightMM)

	drillingFee := 0
	if s.order.Product == cutline.ProductKeyring {
		drillingFee = s.cutCfg.DrillingFee
	}
	quote := s.pricer.FullQuote(m, s.order.Quantity, drillingFee)

	s.metrics = &m
	s.quote = &quote
	s.mu.Unlock()

	s.Emit(EventQuoteUpdated, &quote)
}

// projectFile is the on-disk representation of a saved session.
type projectFile struct {
	Version     int                 `json:"version"`
	ArtworkPath string              `json:"artwork_path"`
	Shape       []editor.ImagePoint `json:"shape"`
	Order       Order               `json:"order"`
}

const projectFileVersion = 1

// SaveProject writes the session to path as JSON and clears the modified flag.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	pf := projectFile{
		Version: projectFileVersion,
		Shape:   s.shape,
		Order:   s.order,
	}
	if s.art != nil {
		pf.ArtworkPath = s.art.Path
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}

	s.mu.Lock()
	s.projectPath = path
	s.modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// LoadProject reads a saved session from path, replacing the current one.
// The referenced artwork is reloaded; a missing artwork file is an error.
func (s *State) LoadProject(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading project: %w", err)
	}

	var pf projectFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parsing project: %w", err)
	}
	if pf.Version > projectFileVersion {
		return fmt.Errorf("project version %d is newer than supported version %d", pf.Version, projectFileVersion)
	}

	var art *artwork.Artwork
	if pf.ArtworkPath != "" {
		art, err = artwork.Load(pf.ArtworkPath)
		if err != nil {
			return fmt.Errorf("loading project artwork: %w", err)
		}
	}

	s.mu.Lock()
	s.projectPath = path
	s.art = art
	s.shape = pf.Shape
	s.order = pf.Order
	if s.order.Quantity < 1 {
		s.order.Quantity = 1
	}
	s.modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	s.refreshQuote()
	return nil
}
