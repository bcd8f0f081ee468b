// Package tech loads and validates the immutable technology configuration
// that drives clamp generation.
//
// A technology file is TOML with three sections: the layer table (routing
// direction, track pitch and offset per metal layer), the width/space policy
// tables keyed by purpose tag, and the clamp family record (top layer, used
// port layer, decorative rectangle arrays, and the per-cell-type records
// with library/cell identity, size, and port pin rectangles).
//
// Configurations are parsed once per invocation and never mutated; a
// *Technology is safe to share across concurrent planner runs.
package tech

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"

	clamperr "github.com/jmorra/clampgen/pkg/errors"
	"github.com/jmorra/clampgen/pkg/geom"
	"github.com/jmorra/clampgen/pkg/grid"
	"github.com/jmorra/clampgen/pkg/track"
)

// Margin is a per-edge adjustment applied to the core bounding box when
// placing a rectangle array. Values shrink (positive xl/yl, negative xh/yh)
// or keep the corresponding edge.
type Margin struct {
	XL int `toml:"xl"`
	XH int `toml:"xh"`
	YL int `toml:"yl"`
	YH int `toml:"yh"`
}

// RectArr describes one decorative rectangle array stamped over the clamp
// core, e.g. a dummy-fill or top-metal mesh pattern.
type RectArr struct {
	Layer      string `toml:"layer"`
	Purpose    string `toml:"purpose"`
	EdgeMargin Margin `toml:"edge_margin"`
	SpX        int    `toml:"spx"`
	SpY        int    `toml:"spy"`
	WUnit      int    `toml:"w_unit"`
	HUnit      int    `toml:"h_unit"`
}

// CellType is the per-cell-type technology record: the static layout cell
// to instantiate and its port pin geometry per net per layer.
type CellType struct {
	LibName  string
	CellName string
	Width    int
	Height   int
	// Ports maps net name -> layer -> pin rectangles.
	Ports map[string]map[int][]geom.BBox
}

// Clamp is the clamp family record shared by all cell types.
type Clamp struct {
	TopLayer      int
	UsedPortLayer int
	RectArrs      []RectArr
	Types         map[string]CellType
}

// Technology is the full parsed configuration.
type Technology struct {
	Layers map[int]grid.LayerSpec
	Widths track.WidthTable
	Spaces track.SpaceTable
	Clamp  Clamp
}

// CellType looks up a clamp cell-type record by name.
func (t *Technology) CellType(name string) (CellType, error) {
	ct, ok := t.Clamp.Types[name]
	if !ok {
		return CellType{}, clamperr.New(clamperr.ErrCodeCellNotFound,
			"cell type %q not present in technology data", name)
	}
	return ct, nil
}

// CellNames returns the configured cell-type names in sorted order.
func (t *Technology) CellNames() []string {
	names := make([]string, 0, len(t.Clamp.Types))
	for name := range t.Clamp.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTopLayer applies an explicit override (non-zero) over the
// technology default.
func (t *Technology) ResolveTopLayer(override int) int {
	if override != 0 {
		return override
	}
	return t.Clamp.TopLayer
}

// BuildGrid constructs the routing grid from the layer table.
func (t *Technology) BuildGrid() (*grid.Grid, error) {
	return grid.New(t.Layers)
}

// BuildTracks constructs the track width/spacing manager over g.
func (t *Technology) BuildTracks(g *grid.Grid) *track.Manager {
	return track.NewManager(g, t.Widths, t.Spaces)
}

// rawTech mirrors the TOML document before integer-key conversion.
type rawTech struct {
	Layers map[string]rawLayer       `toml:"layers"`
	Widths map[string]map[string]int `toml:"widths"`
	Spaces map[string]map[string]int `toml:"spaces"`
	Clamp  rawClamp                  `toml:"clamp"`
}

type rawLayer struct {
	Direction string `toml:"direction"`
	Pitch     int    `toml:"pitch"`
	Offset    int    `toml:"offset"`
}

type rawClamp struct {
	TopLayer      int                    `toml:"top_layer"`
	UsedPortLayer int                    `toml:"used_port_layer"`
	RectArrs      []RectArr              `toml:"rect_arr"`
	Types         map[string]rawCellType `toml:"types"`
}

type rawCellType struct {
	LibName  string                        `toml:"lib_name"`
	CellName string                        `toml:"cell_name"`
	Size     []int                         `toml:"size"`
	Ports    map[string]map[string][][]int `toml:"ports"`
}

// Load reads and parses a technology file.
func Load(path string) (*Technology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clamperr.Wrap(clamperr.ErrCodeInvalidConfig, err, "read technology file %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML technology document.
func Parse(data []byte) (*Technology, error) {
	var raw rawTech
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, clamperr.Wrap(clamperr.ErrCodeInvalidConfig, err, "decode technology TOML")
	}

	t := &Technology{
		Layers: make(map[int]grid.LayerSpec, len(raw.Layers)),
		Widths: track.WidthTable{},
		Spaces: track.SpaceTable{},
		Clamp: Clamp{
			TopLayer:      raw.Clamp.TopLayer,
			UsedPortLayer: raw.Clamp.UsedPortLayer,
			RectArrs:      raw.Clamp.RectArrs,
			Types:         make(map[string]CellType, len(raw.Clamp.Types)),
		},
	}

	for key, rl := range raw.Layers {
		id, err := layerKey(key)
		if err != nil {
			return nil, err
		}
		dir, err := parseDirection(rl.Direction)
		if err != nil {
			return nil, clamperr.Wrap(clamperr.ErrCodeInvalidConfig, err, "layer %d", id)
		}
		t.Layers[id] = grid.LayerSpec{Direction: dir, Pitch: rl.Pitch, Offset: rl.Offset}
	}

	for key, byTag := range raw.Widths {
		id, err := layerKey(key)
		if err != nil {
			return nil, err
		}
		t.Widths[id] = byTag
	}
	for key, byTag := range raw.Spaces {
		id, err := layerKey(key)
		if err != nil {
			return nil, err
		}
		t.Spaces[id] = byTag
	}

	for name, rc := range raw.Clamp.Types {
		ct, err := parseCellType(name, rc)
		if err != nil {
			return nil, err
		}
		t.Clamp.Types[name] = ct
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseCellType(name string, rc rawCellType) (CellType, error) {
	if rc.LibName == "" || rc.CellName == "" {
		return CellType{}, clamperr.New(clamperr.ErrCodeInvalidConfig,
			"cell type %q: lib_name and cell_name are required", name)
	}
	if len(rc.Size) != 2 {
		return CellType{}, clamperr.New(clamperr.ErrCodeInvalidConfig,
			"cell type %q: size must be [width, height]", name)
	}
	ct := CellType{
		LibName:  rc.LibName,
		CellName: rc.CellName,
		Width:    rc.Size[0],
		Height:   rc.Size[1],
		Ports:    make(map[string]map[int][]geom.BBox, len(rc.Ports)),
	}
	for net, byLayer := range rc.Ports {
		ct.Ports[net] = make(map[int][]geom.BBox, len(byLayer))
		for key, rects := range byLayer {
			id, err := layerKey(key)
			if err != nil {
				return CellType{}, err
			}
			boxes := make([]geom.BBox, len(rects))
			for i, r := range rects {
				if len(r) != 4 {
					return CellType{}, clamperr.New(clamperr.ErrCodeInvalidConfig,
						"cell type %q: port %s layer %d rect %d must have 4 coordinates", name, net, id, i)
				}
				boxes[i] = geom.NewBBox(r[0], r[1], r[2], r[3])
				if !boxes[i].Valid() {
					return CellType{}, clamperr.New(clamperr.ErrCodeInvalidConfig,
						"cell type %q: port %s layer %d rect %d is inverted", name, net, id, i)
				}
			}
			ct.Ports[net][id] = boxes
		}
	}
	return ct, nil
}

func (t *Technology) validate() error {
	if err := clamperr.ValidateLayerRange(t.Clamp.UsedPortLayer, t.Clamp.TopLayer); err != nil {
		return err
	}
	for layer := t.Clamp.UsedPortLayer; layer <= t.Clamp.TopLayer; layer++ {
		if _, ok := t.Layers[layer]; !ok {
			return clamperr.New(clamperr.ErrCodeLayerNotFound,
				"layer %d needed for routing is absent from the layer table", layer)
		}
	}
	for i, ra := range t.Clamp.RectArrs {
		if ra.Layer == "" {
			return clamperr.New(clamperr.ErrCodeInvalidConfig, "rect_arr %d: layer is required", i)
		}
		if ra.SpX > 0 && ra.WUnit <= 0 {
			return clamperr.New(clamperr.ErrCodeInvalidConfig, "rect_arr %d: spx > 0 requires w_unit", i)
		}
		if ra.SpY > 0 && ra.HUnit <= 0 {
			return clamperr.New(clamperr.ErrCodeInvalidConfig, "rect_arr %d: spy > 0 requires h_unit", i)
		}
	}
	return nil
}

func layerKey(key string) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, clamperr.New(clamperr.ErrCodeInvalidConfig, "layer key %q is not an integer", key)
	}
	return id, nil
}

func parseDirection(s string) (geom.Orientation, error) {
	switch s {
	case "horizontal", "x":
		return geom.Horizontal, nil
	case "vertical", "y":
		return geom.Vertical, nil
	default:
		return 0, fmt.Errorf("direction must be horizontal or vertical, got %q", s)
	}
}
