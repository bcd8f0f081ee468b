package plan

import (
	"github.com/jmorra/clampgen/pkg/geom"
	"github.com/jmorra/clampgen/pkg/tech"
)

// Instance is the placement/instance provider: a placed sub-cell exposing
// its bounding box and its port pin rectangles per net per layer.
type Instance interface {
	// Bounds returns the instance bounding box.
	Bounds() geom.BBox
	// PortPins returns the pin rectangles of a net on a layer.
	// The returned slice must not be mutated by the caller.
	PortPins(net string, layer int) []geom.BBox
}

// BlackBox is an Instance backed by a technology cell-type record, placed
// with its lower-left corner at the origin. It mirrors how a static clamp
// layout is dropped in as an opaque block whose only known geometry is its
// size and port map.
type BlackBox struct {
	cell tech.CellType
}

// NewBlackBox wraps a cell-type record as a placed instance.
func NewBlackBox(ct tech.CellType) *BlackBox {
	return &BlackBox{cell: ct}
}

// Bounds returns (0, 0, width, height).
func (b *BlackBox) Bounds() geom.BBox {
	return geom.NewBBox(0, 0, b.cell.Width, b.cell.Height)
}

// PortPins returns the configured pin rectangles for net on layer.
func (b *BlackBox) PortPins(net string, layer int) []geom.BBox {
	byLayer, ok := b.cell.Ports[net]
	if !ok {
		return nil
	}
	return byLayer[layer]
}
