package render

import (
	"bytes"
	"fmt"
)

// Default fill colors per metal layer, cycling for deeper stacks.
var layerPalette = []string{
	"#4c78a8", "#f58518", "#54a24b", "#e45756", "#72b7b2", "#b279a2",
}

type RenderOption func(*renderer)

type renderer struct {
	scale     int
	labels    bool
	colors    map[int]string
	hiddenPin bool
}

// WithScale multiplies all coordinates by the given factor.
func WithScale(s int) RenderOption { return func(r *renderer) { r.scale = s } }

// WithLabels draws net names on published pins.
func WithLabels() RenderOption { return func(r *renderer) { r.labels = true } }

// WithLayerColor overrides the fill color for one layer.
func WithLayerColor(layer int, color string) RenderOption {
	return func(r *renderer) { r.colors[layer] = color }
}

// WithHiddenPins includes hidden NC pins in the output.
func WithHiddenPins() RenderOption { return func(r *renderer) { r.hiddenPin = true } }

// RenderSVG draws a layout as a layered cross-section: cell outline, rect
// arrays, routed supply wires bottom-up, and published pins on top.
func RenderSVG(l *Layout, opts ...RenderOption) []byte {
	r := newRenderer(opts...)

	w := (l.Outline.XH - l.Outline.XL) * r.scale
	h := (l.Outline.YH - l.Outline.YL) * r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		w, h, w, h)

	// SVG y grows downward; layout y grows upward.
	fmt.Fprintf(&buf, `<g transform="translate(0,%d) scale(1,-1)">`+"\n", h)

	r.rect(&buf, l.Outline, "none", "#333", 1, "outline")

	for _, ra := range l.Rects {
		r.rectArray(&buf, ra)
	}
	for _, wd := range l.Wires {
		r.rect(&buf, wd.Rect, r.layerColor(wd.Layer), "none", 0,
			fmt.Sprintf("wire-%s-l%d", wd.Net, wd.Layer))
	}
	for _, p := range l.Pins {
		if p.Hidden && !r.hiddenPin {
			continue
		}
		stroke := "#000"
		if p.Hidden {
			stroke = "#999"
		}
		r.rect(&buf, p.Rect, "none", stroke, 1, fmt.Sprintf("pin-%s", p.Net))
	}

	buf.WriteString("</g>\n")

	if r.labels {
		for _, p := range l.Pins {
			if p.Hidden && !r.hiddenPin {
				continue
			}
			x := (p.Rect.XL + p.Rect.XH) / 2 * r.scale
			y := h - (p.Rect.YL+p.Rect.YH)/2*r.scale
			fmt.Fprintf(&buf,
				`<text x="%d" y="%d" font-size="%d" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				x, y, 4*r.scale, p.Net)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newRenderer(opts ...RenderOption) renderer {
	r := renderer{scale: 1, colors: map[int]string{}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale < 1 {
		r.scale = 1
	}
	return r
}

func (r *renderer) layerColor(layer int) string {
	if c, ok := r.colors[layer]; ok {
		return c
	}
	return layerPalette[layer%len(layerPalette)]
}

func (r *renderer) rect(buf *bytes.Buffer, rc Rect, fill, stroke string, strokeW int, class string) {
	fmt.Fprintf(buf,
		`<rect class=%q x="%d" y="%d" width="%d" height="%d" fill=%q stroke=%q stroke-width="%d" fill-opacity="0.6"/>`+"\n",
		class, rc.XL*r.scale, rc.YL*r.scale,
		(rc.XH-rc.XL)*r.scale, (rc.YH-rc.YL)*r.scale,
		fill, stroke, strokeW)
}

func (r *renderer) rectArray(buf *bytes.Buffer, ra RectArrDoc) {
	w := ra.Rect.XH - ra.Rect.XL
	h := ra.Rect.YH - ra.Rect.YL
	for iy := 0; iy < ra.NumY; iy++ {
		for ix := 0; ix < ra.NumX; ix++ {
			unit := Rect{
				XL: ra.Rect.XL + ix*ra.SpX,
				YL: ra.Rect.YL + iy*ra.SpY,
			}
			unit.XH = unit.XL + w
			unit.YH = unit.YL + h
			r.rect(buf, unit, "#ccc", "none", 0, "fill-"+ra.Layer)
		}
	}
}
