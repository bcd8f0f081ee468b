// Package track implements the wire width and spacing policy used when
// allocating routing tracks.
//
// Widths and spacings are keyed by (layer, purpose tag). The empty tag ""
// acts as the per-layer default, so a table only needs explicit entries for
// tags that deviate from it. All arithmetic is integer and deterministic:
// two managers built from equal tables answer every query identically.
package track

import (
	"math"

	"github.com/jmorra/clampgen/pkg/grid"
)

// WidthTable maps layer -> purpose tag -> physical wire width.
type WidthTable map[int]map[string]int

// SpaceTable maps layer -> purpose tag -> minimum spacing between adjacent
// wires of that tag.
type SpaceTable map[int]map[string]int

// Manager answers width, spacing, fit-count and spreading queries against a
// routing grid. It is read-only after construction and safe to share across
// concurrent planner invocations.
type Manager struct {
	grid   *grid.Grid
	widths WidthTable
	spaces SpaceTable
}

// NewManager builds a manager over the given grid and policy tables.
// Nil tables are treated as empty.
func NewManager(g *grid.Grid, widths WidthTable, spaces SpaceTable) *Manager {
	if widths == nil {
		widths = WidthTable{}
	}
	if spaces == nil {
		spaces = SpaceTable{}
	}
	return &Manager{grid: g, widths: widths, spaces: spaces}
}

// Grid returns the routing grid the manager was built over.
func (m *Manager) Grid() *grid.Grid { return m.grid }

// Width returns the nominal wire width for a tag on a layer, falling back
// to the layer's "" entry and finally to 1.
func (m *Manager) Width(layer int, tag string) int {
	return lookup(m.widths, layer, tag, 1)
}

// Space returns the minimum spacing between adjacent same-tag wires on a
// layer, falling back to the layer's "" entry and finally to 0.
func (m *Manager) Space(layer int, tag string) int {
	return lookup(m.spaces, layer, tag, 0)
}

// NumWiresBetween returns how many additional wires of the given tag fit
// strictly between a wire on track lo and a wire on track hi, honoring the
// tag's width and spacing. The endpoints themselves are assumed occupied, so
// the total number of allocatable wires across [lo, hi] is the returned
// value plus two.
//
// Wires land on integer track indices, so the physical count is capped by
// the number of tracks strictly between lo and hi; on layers whose pitch
// exceeds width+space the track grid is the binding constraint.
//
// The result is negative when the window cannot even host the two endpoint
// wires (hi below lo, or closer than one width-plus-space step).
func (m *Manager) NumWiresBetween(layer int, tag string, lo, hi int) int {
	if hi < lo {
		return -2
	}
	span := m.grid.TrackToCoord(layer, hi) - m.grid.TrackToCoord(layer, lo)
	step := m.Width(layer, tag) + m.Space(layer, tag)
	n := span/step - 1
	if slots := hi - lo - 1; n > slots {
		n = slots
	}
	return n
}

// SpreadWires distributes len(tags) wire centerlines evenly across the
// inclusive track range [lo, hi], with the first wire pinned at lo and the
// last at hi. Intermediate positions are rounded to the nearest track.
// The returned indices are non-decreasing and deterministic.
func (m *Manager) SpreadWires(layer int, tags []string, lo, hi int) []int {
	n := len(tags)
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	span := hi - lo
	for i := range out {
		out[i] = lo + int(math.Round(float64(i)*float64(span)/float64(n-1)))
	}
	return out
}

func lookup(table map[int]map[string]int, layer int, tag string, def int) int {
	byTag, ok := table[layer]
	if !ok {
		return def
	}
	if v, ok := byTag[tag]; ok {
		return v
	}
	if v, ok := byTag[""]; ok {
		return v
	}
	return def
}
