package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jmorra/clampgen/pkg/plan"
	"github.com/jmorra/clampgen/pkg/tech"
)

const testTech = `
[layers.2]
direction = "horizontal"
pitch = 10
offset = 5

[layers.3]
direction = "vertical"
pitch = 1
offset = 0

[layers.4]
direction = "horizontal"
pitch = 10
offset = 5

[widths.3]
sup = 2

[widths.4]
sup = 4

[spaces.3]
sup = 1

[spaces.4]
sup = 6

[clamp]
top_layer = 4
used_port_layer = 2

[[clamp.rect_arr]]
layer = "M5"
purpose = "drawing"

[clamp.rect_arr.edge_margin]
xl = 2
yl = 2
xh = -2
yh = -2

[clamp.types.esd_small]
lib_name = "stdclamp"
cell_name = "esd_static_sm"
size = [100, 100]

[clamp.types.esd_small.ports.VDD]
2 = [[0, 10, 5, 20], [0, 40, 5, 50]]

[clamp.types.esd_small.ports.VSS]
2 = [[0, 60, 5, 70]]

[clamp.types.esd_small.ports.NC]
2 = [[0, 80, 5, 90]]
`

func planLayout(t *testing.T) *Layout {
	t.Helper()
	tc, err := tech.Parse([]byte(testTech))
	if err != nil {
		t.Fatalf("tech.Parse() error: %v", err)
	}
	p, err := plan.New(tc)
	if err != nil {
		t.Fatalf("plan.New() error: %v", err)
	}
	res, err := p.Run(plan.Options{Cell: "esd_small"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return FromResult(res, p.Grid())
}

func TestFromResult(t *testing.T) {
	l := planLayout(t)

	if l.Cell != "esd_small" || l.TopLayer != 4 || l.UsedPortLayer != 2 {
		t.Errorf("layout header = %+v", l)
	}
	if want := (Rect{0, 0, 100, 100}); l.Outline != want {
		t.Errorf("outline = %v, want %v", l.Outline, want)
	}
	// Two hops, two wires each.
	if len(l.Wires) != 4 {
		t.Fatalf("wire count = %d, want 4", len(l.Wires))
	}
	top := l.Wires[2]
	if top.Net != plan.NetVDD || top.Layer != 4 {
		t.Errorf("top VDD wire = %+v", top)
	}
	if want := (Rect{0, 13, 2, 57}); top.Rect != want {
		t.Errorf("top VDD rect = %v, want %v", top.Rect, want)
	}
	if len(l.Pins) != 3 {
		t.Errorf("pin count = %d, want 3", len(l.Pins))
	}
	if len(l.Rects) != 1 || l.Rects[0].Layer != "M5" {
		t.Errorf("rects = %v", l.Rects)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	l := planLayout(t)

	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	back, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error: %v", err)
	}
	if !reflect.DeepEqual(l, back) {
		t.Error("layout changed across JSON round trip")
	}
}

func TestWriteJSON(t *testing.T) {
	l := planLayout(t)
	var sb strings.Builder
	if err := WriteJSON(l, &sb); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(sb.String(), `"cell": "esd_small"`) {
		t.Errorf("WriteJSON output missing cell field:\n%s", sb.String())
	}
}

func TestRenderSVG(t *testing.T) {
	l := planLayout(t)
	svg := string(RenderSVG(l, WithScale(4), WithLabels()))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("RenderSVG output does not start with <svg:\n%.80s", svg)
	}
	if !strings.Contains(svg, `viewBox="0 0 400 400"`) {
		t.Error("RenderSVG missing scaled viewBox")
	}
	if !strings.Contains(svg, `class="wire-VDD-l4"`) {
		t.Error("RenderSVG missing top-layer VDD wire")
	}
	if !strings.Contains(svg, ">VDD</text>") {
		t.Error("RenderSVG missing VDD label")
	}
	// NC pins are hidden by default
	if strings.Contains(svg, `class="pin-NC"`) {
		t.Error("RenderSVG should omit hidden pins by default")
	}

	withNC := string(RenderSVG(l, WithHiddenPins()))
	if !strings.Contains(withNC, `class="pin-NC"`) {
		t.Error("WithHiddenPins should include NC pins")
	}
}

func TestToDOT(t *testing.T) {
	l := planLayout(t)
	dot := ToDOT(l)

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Fatalf("ToDOT output malformed:\n%.80s", dot)
	}
	if !strings.Contains(dot, `"VDD@M3"`) || !strings.Contains(dot, `"VDD@M4"`) {
		t.Error("ToDOT missing VDD hop nodes")
	}
	if !strings.Contains(dot, `"VDD@M3" -> "VDD@M4";`) {
		t.Error("ToDOT missing VDD hop edge")
	}
	if !strings.Contains(dot, `"esd_small" -> "VDD@M3";`) {
		t.Error("ToDOT missing cell to first hop edge")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="1.0 2.0 100.0 200.0">rest</svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 200.00"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
}
