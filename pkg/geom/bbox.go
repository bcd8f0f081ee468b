// Package geom provides integer geometry primitives for layout planning.
//
// All coordinates are in integer grid units (typically the technology's
// database unit). Rectangles are axis-aligned and immutable by convention:
// every operation returns a new value rather than mutating the receiver.
package geom

import "fmt"

// Orientation is the preferred routing direction of a metal layer.
// Layers alternate orientation as they stack upward.
type Orientation int

const (
	// Horizontal means wires run left-to-right; tracks are stacked along y.
	Horizontal Orientation = iota
	// Vertical means wires run bottom-to-top; tracks are stacked along x.
	Vertical
)

// Flip returns the perpendicular orientation.
func (o Orientation) Flip() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// BBox is an axis-aligned rectangle (xl, yl) .. (xh, yh) in grid units.
// A BBox is valid when xh >= xl and yh >= yl.
type BBox struct {
	XL, YL, XH, YH int
}

// NewBBox constructs a bounding box from its four edges.
func NewBBox(xl, yl, xh, yh int) BBox {
	return BBox{XL: xl, YL: yl, XH: xh, YH: yh}
}

// Valid reports whether the box has non-negative width and height.
func (b BBox) Valid() bool { return b.XH >= b.XL && b.YH >= b.YL }

// Width returns the horizontal span of the box.
func (b BBox) Width() int { return b.XH - b.XL }

// Height returns the vertical span of the box.
func (b BBox) Height() int { return b.YH - b.YL }

// Span returns the box extent along the given orientation:
// (xl, xh) for horizontal, (yl, yh) for vertical.
func (b BBox) Span(o Orientation) (lo, hi int) {
	if o == Horizontal {
		return b.XL, b.XH
	}
	return b.YL, b.YH
}

// Merge returns the smallest box containing both b and other.
func (b BBox) Merge(other BBox) BBox {
	return BBox{
		XL: min(b.XL, other.XL),
		YL: min(b.YL, other.YL),
		XH: max(b.XH, other.XH),
		YH: max(b.YH, other.YH),
	}
}

// Intersect returns the overlap of b and other.
// The result may be invalid if the boxes do not overlap.
func (b BBox) Intersect(other BBox) BBox {
	return BBox{
		XL: max(b.XL, other.XL),
		YL: max(b.YL, other.YL),
		XH: min(b.XH, other.XH),
		YH: min(b.YH, other.YH),
	}
}

// Extend grows (or shrinks, for negative d) the box by d on every edge.
func (b BBox) Extend(d int) BBox {
	return BBox{XL: b.XL - d, YL: b.YL - d, XH: b.XH + d, YH: b.YH + d}
}

// Contains reports whether other lies entirely inside b.
func (b BBox) Contains(other BBox) bool {
	return other.XL >= b.XL && other.YL >= b.YL && other.XH <= b.XH && other.YH <= b.YH
}

// String formats the box as (xl, yl, xh, yh).
func (b BBox) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", b.XL, b.YL, b.XH, b.YH)
}
