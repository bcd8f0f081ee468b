// Package plan computes clamp supply routing plans.
//
// The planner takes a pre-placed clamp core (an [Instance] with known
// supply pin geometry on one metal layer) and brings the VDD and VSS nets
// up through the layer stack onto a target top layer, one hop at a time.
// Each hop allocates a group of routing tracks inside the window where all
// supply pins (or the previous hop's wires) overlap, spreads the wires
// evenly, and records the resulting wire geometry. The final top-layer
// wires become the cell's exported pins.
//
// A planner invocation is synchronous and deterministic: the same
// technology, cell and options always produce an identical [Result]. The
// planner holds only read-only collaborators (grid, track manager,
// technology) and is safe to share across goroutines.
package plan

import (
	"fmt"

	"github.com/jmorra/clampgen/pkg/geom"
	"github.com/jmorra/clampgen/pkg/grid"
)

// Net names routed or published by the planner.
const (
	NetVDD = "VDD"
	NetVSS = "VSS"
	// NetNC marks unconnected port rectangles, published hidden so parent
	// cells can still run collision checks against them.
	NetNC = "NC"
)

// tagSupply is the track purpose tag for supply wires.
const tagSupply = "sup"

// Fixed per-layer spread positions: VDD always takes the first spread
// index, VSS the second. This is a tie-break for determinism, not a
// configuration knob.
const (
	vddIdx      = 0
	vssIdx      = 1
	numSupplies = 2
)

// Wire is a routed wire group on one layer: the allocated tracks plus the
// extent of the wire along the layer's routing direction.
type Wire struct {
	Layer int
	Track grid.TrackID
	// Lower and Upper bound the wire along the layer's preferred direction.
	Lower, Upper int
}

// BBox returns the physical rectangle covered by the wire group: the
// Lower..Upper extent along the routing direction and the track group's
// span across it.
func (w Wire) BBox(g *grid.Grid) geom.BBox {
	lo, hi := w.Track.PhysicalSpan(g)
	if g.Direction(w.Layer) == geom.Horizontal {
		return geom.NewBBox(w.Lower, lo, w.Upper, hi)
	}
	return geom.NewBBox(lo, w.Lower, hi, w.Upper)
}

// Hop records the two supply wires produced on one routing layer.
type Hop struct {
	Layer    int
	VDD, VSS Wire
}

// RectArray is a placed decorative rectangle array: NumX x NumY copies of
// BBox stepped by SpX/SpY.
type RectArray struct {
	Layer      string
	Purpose    string
	BBox       geom.BBox
	NumX, NumY int
	SpX, SpY   int
}

// Pin is a published cell pin. Hidden pins participate in collision
// checks only and are not connectable.
type Pin struct {
	Net    string
	Layer  int
	BBox   geom.BBox
	Hidden bool
}

// Result is the complete output of one planning pass. It is immutable
// once returned; two runs with equal inputs produce equal Results.
type Result struct {
	Cell          string
	TopLayer      int
	UsedPortLayer int
	Outline       geom.BBox
	VDD, VSS      Wire
	Hops          []Hop
	Rects         []RectArray
	Pins          []Pin
}

// Sink receives published pins and rectangle arrays, typically a layout
// database adapter. See [Recorder] for an in-memory implementation.
type Sink interface {
	AddPin(net string, layer int, box geom.BBox, hidden bool)
	AddRectArray(arr RectArray)
}

// Publish pushes the result's pins and rectangle arrays into a sink.
func (r *Result) Publish(s Sink) {
	for _, arr := range r.Rects {
		s.AddRectArray(arr)
	}
	for _, p := range r.Pins {
		s.AddPin(p.Net, p.Layer, p.BBox, p.Hidden)
	}
}

// Recorder is a Sink that accumulates everything published into it.
type Recorder struct {
	Pins  []Pin
	Rects []RectArray
}

// AddPin records a published pin.
func (r *Recorder) AddPin(net string, layer int, box geom.BBox, hidden bool) {
	r.Pins = append(r.Pins, Pin{Net: net, Layer: layer, BBox: box, Hidden: hidden})
}

// AddRectArray records a placed rectangle array.
func (r *Recorder) AddRectArray(arr RectArray) {
	r.Rects = append(r.Rects, arr)
}

// InfeasibleError reports that a routing layer cannot host at least one
// track per supply net. It is terminal for the planning pass and is never
// retried; the technology or cell size needs manual adjustment.
type InfeasibleError struct {
	Layer int
}

// Error implements the error interface.
func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("routing infeasible on layer %d: fewer than %d supply wires fit",
		e.Layer, numSupplies)
}
