package editor

// Input is an abstract input command delivered to the editor. The
// hosting surface translates raw platform events (mouse, touch, stylus)
// into these commands with positions already in display space.
type Input interface {
	isInput()
}

// Click is a discrete click on the surface. Drives polygon mode.
type Click struct {
	Pos DisplayPoint
}

// PointerDown starts a freehand stroke. The surface is expected to
// capture the pointer until the matching PointerUp.
type PointerDown struct {
	Pos DisplayPoint
}

// PointerMove reports pointer motion. Updates the polygon preview
// cursor, or extends the active freehand stroke while dragging.
type PointerMove struct {
	Pos DisplayPoint
}

// PointerUp ends a freehand stroke and releases pointer capture.
type PointerUp struct {
	Pos DisplayPoint
}

// PointerLeave reports the pointer leaving the surface.
type PointerLeave struct{}

func (Click) isInput()        {}
func (PointerDown) isInput()  {}
func (PointerMove) isInput()  {}
func (PointerUp) isInput()    {}
func (PointerLeave) isInput() {}
