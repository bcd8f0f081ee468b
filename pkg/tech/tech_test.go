package tech

import (
	"testing"

	clamperr "github.com/jmorra/clampgen/pkg/errors"
	"github.com/jmorra/clampgen/pkg/geom"
)

const testTOML = `
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
w_unit = 10
h_unit = 10

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

func TestParse_FullDocument(t *testing.T) {
	tc, err := Parse([]byte(testTOML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if tc.Clamp.TopLayer != 4 || tc.Clamp.UsedPortLayer != 2 {
		t.Errorf("clamp layers = (%d, %d), want (4, 2)", tc.Clamp.TopLayer, tc.Clamp.UsedPortLayer)
	}
	if got := tc.Layers[3].Pitch; got != 1 {
		t.Errorf("layer 3 pitch = %d, want 1", got)
	}
	if got := tc.Layers[2].Direction; got != geom.Horizontal {
		t.Errorf("layer 2 direction = %v, want horizontal", got)
	}

	ct, err := tc.CellType("esd_small")
	if err != nil {
		t.Fatalf("CellType() error: %v", err)
	}
	if ct.Width != 100 || ct.Height != 100 {
		t.Errorf("size = (%d, %d), want (100, 100)", ct.Width, ct.Height)
	}
	vdd := ct.Ports["VDD"][2]
	if len(vdd) != 2 || vdd[0] != geom.NewBBox(0, 10, 5, 20) {
		t.Errorf("VDD pins = %v", vdd)
	}

	if len(tc.Clamp.RectArrs) != 1 {
		t.Fatalf("rect_arr count = %d, want 1", len(tc.Clamp.RectArrs))
	}
	ra := tc.Clamp.RectArrs[0]
	if ra.Layer != "M5" || ra.EdgeMargin.XH != -2 {
		t.Errorf("rect_arr = %+v", ra)
	}
}

func TestParse_TopLayerBelowPortLayer(t *testing.T) {
	doc := `
[layers.2]
direction = "horizontal"
pitch = 10

[clamp]
top_layer = 2
used_port_layer = 2
`
	_, err := Parse([]byte(doc))
	if !clamperr.Is(err, clamperr.ErrCodeInvalidLayer) {
		t.Errorf("Parse() error = %v, want INVALID_LAYER", err)
	}
}

func TestParse_MissingRoutingLayer(t *testing.T) {
	doc := `
[layers.2]
direction = "horizontal"
pitch = 10

[layers.3]
direction = "vertical"
pitch = 10

[clamp]
top_layer = 4
used_port_layer = 2
`
	_, err := Parse([]byte(doc))
	if !clamperr.Is(err, clamperr.ErrCodeLayerNotFound) {
		t.Errorf("Parse() error = %v, want LAYER_NOT_FOUND", err)
	}
}

func TestParse_RectArrPitchWithoutUnit(t *testing.T) {
	doc := testTOML + `
[[clamp.rect_arr]]
layer = "M1"
spx = 5
`
	_, err := Parse([]byte(doc))
	if !clamperr.Is(err, clamperr.ErrCodeInvalidConfig) {
		t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
	}
}

func TestCellType_Unknown(t *testing.T) {
	tc, err := Parse([]byte(testTOML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	_, err = tc.CellType("nope")
	if !clamperr.Is(err, clamperr.ErrCodeCellNotFound) {
		t.Errorf("CellType(nope) error = %v, want CELL_NOT_FOUND", err)
	}
}

func TestResolveTopLayer(t *testing.T) {
	tc, err := Parse([]byte(testTOML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := tc.ResolveTopLayer(0); got != 4 {
		t.Errorf("ResolveTopLayer(0) = %d, want tech default 4", got)
	}
	if got := tc.ResolveTopLayer(3); got != 3 {
		t.Errorf("ResolveTopLayer(3) = %d, want override 3", got)
	}
}

func TestCellNames_Sorted(t *testing.T) {
	tc, err := Parse([]byte(testTOML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	names := tc.CellNames()
	if len(names) != 1 || names[0] != "esd_small" {
		t.Errorf("CellNames() = %v, want [esd_small]", names)
	}
}

func TestBuildGrid(t *testing.T) {
	tc, err := Parse([]byte(testTOML))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	g, err := tc.BuildGrid()
	if err != nil {
		t.Fatalf("BuildGrid() error: %v", err)
	}
	if !g.HasLayer(4) {
		t.Error("BuildGrid() missing layer 4")
	}
	m := tc.BuildTracks(g)
	if got := m.Width(4, "sup"); got != 4 {
		t.Errorf("Width(4, sup) = %d, want 4", got)
	}
}
