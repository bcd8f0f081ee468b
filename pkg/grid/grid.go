// Package grid models the track-based routing grid of a metal layer stack.
//
// Each metal layer has a preferred routing direction and a uniform track
// grid: track index i sits at coordinate offset + i*pitch along the axis
// perpendicular to the layer's wires. The Grid type answers the three
// queries a layout planner needs: the direction of a layer, the nearest
// track to a coordinate under a rounding mode, and the physical span a
// wire of a given width occupies around a track.
package grid

import (
	"fmt"
	"sort"

	"github.com/jmorra/clampgen/pkg/geom"
)

// RoundMode selects how a coordinate is snapped to the track grid.
type RoundMode int

const (
	// RoundDown snaps to the nearest track at or below the coordinate.
	RoundDown RoundMode = iota
	// RoundClosest snaps to the nearest track, ties rounding up.
	RoundClosest
	// RoundUp snaps to the nearest track at or above the coordinate.
	RoundUp
)

// LayerSpec describes the routing grid of one metal layer.
type LayerSpec struct {
	// Direction is the preferred routing direction of wires on this layer.
	Direction geom.Orientation
	// Pitch is the distance between adjacent track centerlines. Must be > 0.
	Pitch int
	// Offset is the coordinate of track index 0.
	Offset int
}

// Grid holds the layer stack. Layers are identified by small integers
// (1 = lowest metal). A Grid is immutable after construction and safe for
// concurrent use.
type Grid struct {
	layers map[int]LayerSpec
}

// New builds a grid from a layer table.
// Returns an error if any layer has a non-positive pitch, or if two
// adjacent layers share a direction (directions must alternate).
func New(layers map[int]LayerSpec) (*Grid, error) {
	ids := make([]int, 0, len(layers))
	for id, spec := range layers {
		if spec.Pitch <= 0 {
			return nil, fmt.Errorf("layer %d: pitch must be positive, got %d", id, spec.Pitch)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1]+1 && layers[ids[i]].Direction == layers[ids[i-1]].Direction {
			return nil, fmt.Errorf("layers %d and %d share direction %s, directions must alternate",
				ids[i-1], ids[i], layers[ids[i]].Direction)
		}
	}
	cp := make(map[int]LayerSpec, len(layers))
	for id, spec := range layers {
		cp[id] = spec
	}
	return &Grid{layers: cp}, nil
}

// HasLayer reports whether the grid knows the given layer.
func (g *Grid) HasLayer(layer int) bool {
	_, ok := g.layers[layer]
	return ok
}

// Direction returns the preferred routing direction of a layer.
// Unknown layers default to horizontal; callers validate layer ids up front.
func (g *Grid) Direction(layer int) geom.Orientation {
	return g.layers[layer].Direction
}

// TrackAxis returns the axis along which a layer's tracks are stacked,
// which is the perpendicular of its routing direction.
func (g *Grid) TrackAxis(layer int) geom.Orientation {
	return g.layers[layer].Direction.Flip()
}

// CoordToTrack converts a coordinate on the layer's track axis to a track
// index using the given rounding mode.
func (g *Grid) CoordToTrack(layer, coord int, mode RoundMode) int {
	spec := g.layers[layer]
	rel := coord - spec.Offset
	switch mode {
	case RoundUp:
		return ceilDiv(rel, spec.Pitch)
	case RoundDown:
		return floorDiv(rel, spec.Pitch)
	default:
		lo := floorDiv(rel, spec.Pitch)
		if coord-g.TrackToCoord(layer, lo) >= g.TrackToCoord(layer, lo+1)-coord {
			return lo + 1
		}
		return lo
	}
}

// TrackToCoord returns the centerline coordinate of a track index.
func (g *Grid) TrackToCoord(layer, index int) int {
	spec := g.layers[layer]
	return spec.Offset + index*spec.Pitch
}

// WireBounds returns the physical span (lo, hi) occupied by a wire of the
// given width centered on the track at index.
func (g *Grid) WireBounds(layer, index, width int) (lo, hi int) {
	c := g.TrackToCoord(layer, index)
	lo = c - width/2
	return lo, lo + width
}

// BlockBBox rounds a bounding box up to the grid granularity of the given
// layer: the high edge on the layer's track axis is rounded up to the next
// track pitch multiple, and the high edge on the other axis to the pitch of
// the layer below (when present). The low corner is unchanged.
func (g *Grid) BlockBBox(layer int, b geom.BBox) geom.BBox {
	trackPitch := g.layers[layer].Pitch
	wirePitch := trackPitch
	if below, ok := g.layers[layer-1]; ok {
		wirePitch = below.Pitch
	}
	out := b
	if g.TrackAxis(layer) == geom.Horizontal {
		out.XH = b.XL + roundUp(b.Width(), trackPitch)
		out.YH = b.YL + roundUp(b.Height(), wirePitch)
	} else {
		out.YH = b.YL + roundUp(b.Height(), trackPitch)
		out.XH = b.XL + roundUp(b.Width(), wirePitch)
	}
	return out
}

func roundUp(v, unit int) int {
	if unit <= 0 {
		return v
	}
	return ceilDiv(v, unit) * unit
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
