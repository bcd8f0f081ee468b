package plan

import (
	clamperr "github.com/jmorra/clampgen/pkg/errors"
	"github.com/jmorra/clampgen/pkg/geom"
	"github.com/jmorra/clampgen/pkg/grid"
	"github.com/jmorra/clampgen/pkg/tech"
	"github.com/jmorra/clampgen/pkg/track"
)

// Options selects what to plan.
type Options struct {
	// Cell is the clamp cell-type name from the technology data.
	Cell string
	// TopLayer optionally overrides the technology's default pin layer.
	// Zero means use the default.
	TopLayer int
}

// Planner computes clamp routing plans against a fixed technology.
// All collaborators are read-only; one Planner serves many invocations.
type Planner struct {
	tech   *tech.Technology
	grid   *grid.Grid
	tracks *track.Manager
}

// New builds a planner, constructing the routing grid and track manager
// from the technology's layer and policy tables.
func New(t *tech.Technology) (*Planner, error) {
	g, err := t.BuildGrid()
	if err != nil {
		return nil, clamperr.Wrap(clamperr.ErrCodeInvalidConfig, err, "build routing grid")
	}
	return &Planner{tech: t, grid: g, tracks: t.BuildTracks(g)}, nil
}

// Grid returns the planner's routing grid.
func (p *Planner) Grid() *grid.Grid { return p.grid }

// Run plans the named cell type, instantiating it as a [BlackBox].
func (p *Planner) Run(opts Options) (*Result, error) {
	if err := clamperr.ValidateCellName(opts.Cell); err != nil {
		return nil, err
	}
	ct, err := p.tech.CellType(opts.Cell)
	if err != nil {
		return nil, err
	}
	return p.Plan(NewBlackBox(ct), opts)
}

// Plan routes the given instance. Configuration is validated before any
// geometry is computed; on any error no partial result is produced.
func (p *Planner) Plan(inst Instance, opts Options) (*Result, error) {
	topLayer := p.tech.ResolveTopLayer(opts.TopLayer)
	used := p.tech.Clamp.UsedPortLayer
	if err := clamperr.ValidateLayerRange(used, topLayer); err != nil {
		return nil, err
	}
	for layer := used; layer <= topLayer; layer++ {
		if !p.grid.HasLayer(layer) {
			return nil, clamperr.New(clamperr.ErrCodeLayerNotFound,
				"layer %d needed for routing is absent from the layer table", layer)
		}
	}

	vddPins := inst.PortPins(NetVDD, used)
	vssPins := inst.PortPins(NetVSS, used)
	if len(vddPins) == 0 || len(vssPins) == 0 {
		return nil, clamperr.New(clamperr.ErrCodeInvalidConfig,
			"cell %q has no VDD or VSS pins on layer %d", opts.Cell, used)
	}

	bounds := inst.Bounds()
	res := &Result{
		Cell:          opts.Cell,
		TopLayer:      topLayer,
		UsedPortLayer: used,
		Outline:       p.grid.BlockBBox(topLayer, bounds),
	}

	for _, ra := range p.tech.Clamp.RectArrs {
		res.Rects = append(res.Rects, buildRectArray(ra, bounds))
	}

	vddWire, vssWire, err := p.firstHop(used, vddPins, vssPins)
	if err != nil {
		return nil, err
	}
	res.Hops = append(res.Hops, Hop{Layer: used + 1, VDD: vddWire, VSS: vssWire})

	for layer := used + 2; layer <= topLayer; layer++ {
		vddWire, vssWire, err = p.hopUp(layer, vddWire, vssWire)
		if err != nil {
			return nil, err
		}
		res.Hops = append(res.Hops, Hop{Layer: layer, VDD: vddWire, VSS: vssWire})
	}
	res.VDD = vddWire
	res.VSS = vssWire

	res.Pins = append(res.Pins,
		Pin{Net: NetVDD, Layer: topLayer, BBox: vddWire.BBox(p.grid)},
		Pin{Net: NetVSS, Layer: topLayer, BBox: vssWire.BBox(p.grid)},
	)
	for _, nc := range inst.PortPins(NetNC, used) {
		res.Pins = append(res.Pins, Pin{Net: NetNC, Layer: used, BBox: nc, Hidden: true})
	}
	return res, nil
}

// firstHop routes every supply pin rectangle on the used port layer up to
// a track allocation on the next layer and merges each net's connections
// into one wire covering their union extent.
func (p *Planner) firstHop(used int, vddPins, vssPins []geom.BBox) (Wire, Wire, error) {
	trLayer := used + 1

	// Keep the track/via pair inside the pins' usable extent: shrink the
	// window by half the span of a nominal supply wire on the next layer.
	wSup := p.tracks.Width(trLayer, tagSupply)
	blo, bhi := p.grid.WireBounds(trLayer, 0, wSup)
	ext := (bhi - blo) / 2

	// The window is the joint overlap of all supply pin extents along the
	// used layer's routing direction.
	axis := p.grid.Direction(used)
	lower, upper := jointOverlap(axis, vddPins, vssPins)
	lower += ext
	upper -= ext

	vddTID, vssTID, err := p.allocate(trLayer, lower, upper)
	if err != nil {
		return Wire{}, Wire{}, err
	}

	vddWire := connectPins(p.grid, vddPins, vddTID)
	vssWire := connectPins(p.grid, vssPins, vssTID)
	return vddWire, vssWire, nil
}

// hopUp reconnects the previous layer's merged supply wires onto a fresh
// track allocation on the next layer up.
func (p *Planner) hopUp(layer int, vdd, vss Wire) (Wire, Wire, error) {
	lower := min(vdd.Lower, vss.Lower)
	upper := max(vdd.Upper, vss.Upper)

	vddTID, vssTID, err := p.allocate(layer, lower, upper)
	if err != nil {
		return Wire{}, Wire{}, err
	}
	return connectWire(p.grid, vdd, vddTID), connectWire(p.grid, vss, vssTID), nil
}

// allocate snaps a coordinate window onto the layer's track grid, checks
// that at least one track per net fits, and spreads the allocation evenly
// across the window. VDD takes the first spread position, VSS the second.
func (p *Planner) allocate(layer, lower, upper int) (vddTID, vssTID grid.TrackID, err error) {
	loIdx := p.grid.CoordToTrack(layer, lower, grid.RoundUp)
	hiIdx := p.grid.CoordToTrack(layer, upper, grid.RoundDown)

	m := p.tracks.NumWiresBetween(layer, tagSupply, loIdx, hiIdx) + numSupplies
	if m < numSupplies {
		return grid.TrackID{}, grid.TrackID{}, clamperr.Wrap(clamperr.ErrCodeRoutingInfeasible,
			&InfeasibleError{Layer: layer}, "allocate supply tracks")
	}
	n := m / numSupplies

	tags := make([]string, numSupplies*n)
	for i := range tags {
		tags[i] = tagSupply
	}
	idx := p.tracks.SpreadWires(layer, tags, loIdx, hiIdx)
	pitch := (idx[vssIdx] - idx[vddIdx]) * numSupplies

	w := p.tracks.Width(layer, tagSupply)
	vddTID = grid.TrackID{Layer: layer, Base: idx[vddIdx], Width: w, Count: n, Pitch: pitch}
	vssTID = grid.TrackID{Layer: layer, Base: idx[vssIdx], Width: w, Count: n, Pitch: pitch}
	return vddTID, vssTID, nil
}

// connectPins connects each pin rectangle individually to the track group
// and merges the per-pin wires into one wire spanning their union extent.
// The merge makes the result independent of the pin input ordering.
func connectPins(g *grid.Grid, pins []geom.BBox, tid grid.TrackID) Wire {
	dir := g.Direction(tid.Layer)
	w := Wire{Layer: tid.Layer, Track: tid}
	for i, pin := range pins {
		lo, hi := pin.Span(dir)
		if i == 0 {
			w.Lower, w.Upper = lo, hi
			continue
		}
		w.Lower = min(w.Lower, lo)
		w.Upper = max(w.Upper, hi)
	}
	return w
}

// connectWire lands the previous wire group on the new tracks through
// vias; the new wire extends across the previous group's physical span.
func connectWire(g *grid.Grid, prev Wire, tid grid.TrackID) Wire {
	lo, hi := prev.Track.PhysicalSpan(g)
	return Wire{Layer: tid.Layer, Track: tid, Lower: lo, Upper: hi}
}

// jointOverlap returns the window where every pin of both nets overlaps
// along the given axis: max of lower bounds to min of upper bounds.
func jointOverlap(axis geom.Orientation, vddPins, vssPins []geom.BBox) (lower, upper int) {
	first := true
	for _, pins := range [][]geom.BBox{vddPins, vssPins} {
		for _, pin := range pins {
			lo, hi := pin.Span(axis)
			if first {
				lower, upper = lo, hi
				first = false
				continue
			}
			lower = max(lower, lo)
			upper = min(upper, hi)
		}
	}
	return lower, upper
}

// buildRectArray computes one rectangle array over the margin-adjusted
// core bounding box. A zero pitch collapses the corresponding axis to a
// single rectangle spanning the full adjusted range; a positive pitch
// clips the unit to w_unit/h_unit and repeats it to fill the span.
func buildRectArray(ra tech.RectArr, bounds geom.BBox) RectArray {
	xl := bounds.XL + ra.EdgeMargin.XL
	xh := bounds.XH + ra.EdgeMargin.XH
	yl := bounds.YL + ra.EdgeMargin.YL
	yh := bounds.YH + ra.EdgeMargin.YH

	numX := 1
	if ra.SpX > 0 {
		numX = (xh-xl-ra.WUnit)/ra.SpX + 1
		xh = xl + ra.WUnit
	}
	numY := 1
	if ra.SpY > 0 {
		numY = (yh-yl-ra.HUnit)/ra.SpY + 1
		yh = yl + ra.HUnit
	}
	return RectArray{
		Layer:   ra.Layer,
		Purpose: ra.Purpose,
		BBox:    geom.NewBBox(xl, yl, xh, yh),
		NumX:    numX,
		NumY:    numY,
		SpX:     ra.SpX,
		SpY:     ra.SpY,
	}
}
