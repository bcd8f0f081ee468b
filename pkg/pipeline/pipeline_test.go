package pipeline

import (
	"context"
	"testing"

	"github.com/jmorra/clampgen/pkg/cache"
	clamperr "github.com/jmorra/clampgen/pkg/errors"
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

[clamp.types.esd_small]
lib_name = "stdclamp"
cell_name = "esd_static_sm"
size = [100, 100]

[clamp.types.esd_small.ports.VDD]
2 = [[0, 10, 5, 20], [0, 40, 5, 50]]

[clamp.types.esd_small.ports.VSS]
2 = [[0, 60, 5, 70]]
`

func testOptions() Options {
	return Options{
		TechData: []byte(testTech),
		Cell:     "esd_small",
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Layout == nil || result.Layout.Cell != "esd_small" {
		t.Errorf("layout = %+v", result.Layout)
	}
	if result.LayoutHash == "" {
		t.Error("LayoutHash not set")
	}
	for _, format := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("artifact %s is empty", format)
		}
	}
	if result.Stats.WireCount != 4 {
		t.Errorf("wire count = %d, want 4", result.Stats.WireCount)
	}
	if result.CacheInfo.PlanHit || result.CacheInfo.RenderHit {
		t.Error("first run with null cache should not hit cache")
	}
}

func TestExecute_CacheHitsOnSecondRun(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()
	first, err := r.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.PlanHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss cache")
	}

	second, err := r.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.PlanHit {
		t.Error("second run should hit plan cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit render cache")
	}
	if second.LayoutHash != first.LayoutHash {
		t.Error("cached layout hash differs from computed one")
	}
}

func TestExecute_RefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Execute(ctx, testOptions()); err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}

	opts := testOptions()
	opts.Refresh = true
	result, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if result.CacheInfo.PlanHit {
		t.Error("refresh run should not hit plan cache")
	}
}

func TestExecute_MissingTech(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Cell: "esd_small"})
	if !clamperr.Is(err, clamperr.ErrCodeInvalidConfig) {
		t.Errorf("Execute() error = %v, want INVALID_CONFIG", err)
	}
}

func TestExecute_UnknownCell(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := testOptions()
	opts.Cell = "nope"
	_, err := r.Execute(context.Background(), opts)
	if !clamperr.Is(err, clamperr.ErrCodeCellNotFound) {
		t.Errorf("Execute() error = %v, want CELL_NOT_FOUND", err)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json", "dot", "png"}); err != nil {
		t.Errorf("ValidateFormats(valid) error: %v", err)
	}
	err := ValidateFormats([]string{"svg", "gif"})
	if !clamperr.Is(err, clamperr.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormats(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	opts := Options{TechData: []byte(testTech), Cell: "esd_small"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("default formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("default scale = %d, want %d", opts.Scale, DefaultScale)
	}
}
