// Package render turns planning results into serializable and visual
// artifacts.
//
// The [Layout] document is the exchange format: a flat, fully resolved
// view of a plan (physical wire rectangles, pins, rect arrays) that
// marshals to JSON for files and BSON for the plan archive. On top of it
// sit the SVG cross-section renderer and a Graphviz view of the hop
// connectivity graph.
package render

import (
	"github.com/jmorra/clampgen/pkg/geom"
	"github.com/jmorra/clampgen/pkg/grid"
	"github.com/jmorra/clampgen/pkg/plan"
)

// Rect is a serializable axis-aligned rectangle.
type Rect struct {
	XL int `json:"xl" bson:"xl"`
	YL int `json:"yl" bson:"yl"`
	XH int `json:"xh" bson:"xh"`
	YH int `json:"yh" bson:"yh"`
}

// WireDoc is one routed supply wire with its resolved physical rectangle.
type WireDoc struct {
	Net   string `json:"net" bson:"net"`
	Layer int    `json:"layer" bson:"layer"`
	Rect  Rect   `json:"rect" bson:"rect"`
	Count int    `json:"count" bson:"count"`
	Pitch int    `json:"pitch" bson:"pitch"`
}

// PinDoc is one published pin.
type PinDoc struct {
	Net    string `json:"net" bson:"net"`
	Layer  int    `json:"layer" bson:"layer"`
	Rect   Rect   `json:"rect" bson:"rect"`
	Hidden bool   `json:"hidden,omitempty" bson:"hidden,omitempty"`
}

// RectArrDoc is one placed decorative rectangle array.
type RectArrDoc struct {
	Layer   string `json:"layer" bson:"layer"`
	Purpose string `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Rect    Rect   `json:"rect" bson:"rect"`
	NumX    int    `json:"num_x" bson:"num_x"`
	NumY    int    `json:"num_y" bson:"num_y"`
	SpX     int    `json:"spx" bson:"spx"`
	SpY     int    `json:"spy" bson:"spy"`
}

// Layout is the fully resolved plan document.
type Layout struct {
	Cell          string       `json:"cell" bson:"cell"`
	TopLayer      int          `json:"top_layer" bson:"top_layer"`
	UsedPortLayer int          `json:"used_port_layer" bson:"used_port_layer"`
	Outline       Rect         `json:"outline" bson:"outline"`
	Wires         []WireDoc    `json:"wires" bson:"wires"`
	Pins          []PinDoc     `json:"pins" bson:"pins"`
	Rects         []RectArrDoc `json:"rects,omitempty" bson:"rects,omitempty"`
}

// FromResult resolves a planning result into a Layout, computing the
// physical rectangle of every hop wire against the routing grid.
func FromResult(res *plan.Result, g *grid.Grid) *Layout {
	l := &Layout{
		Cell:          res.Cell,
		TopLayer:      res.TopLayer,
		UsedPortLayer: res.UsedPortLayer,
		Outline:       toRect(res.Outline),
	}
	for _, hop := range res.Hops {
		l.Wires = append(l.Wires,
			wireDoc(plan.NetVDD, hop.VDD, g),
			wireDoc(plan.NetVSS, hop.VSS, g),
		)
	}
	for _, p := range res.Pins {
		l.Pins = append(l.Pins, PinDoc{
			Net:    p.Net,
			Layer:  p.Layer,
			Rect:   toRect(p.BBox),
			Hidden: p.Hidden,
		})
	}
	for _, ra := range res.Rects {
		l.Rects = append(l.Rects, RectArrDoc{
			Layer:   ra.Layer,
			Purpose: ra.Purpose,
			Rect:    toRect(ra.BBox),
			NumX:    ra.NumX,
			NumY:    ra.NumY,
			SpX:     ra.SpX,
			SpY:     ra.SpY,
		})
	}
	return l
}

func wireDoc(net string, w plan.Wire, g *grid.Grid) WireDoc {
	return WireDoc{
		Net:   net,
		Layer: w.Layer,
		Rect:  toRect(w.BBox(g)),
		Count: w.Track.Count,
		Pitch: w.Track.Pitch,
	}
}

func toRect(b geom.BBox) Rect {
	return Rect{XL: b.XL, YL: b.YL, XH: b.XH, YH: b.YH}
}
