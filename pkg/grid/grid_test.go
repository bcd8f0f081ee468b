package grid

import (
	"testing"

	"github.com/jmorra/clampgen/pkg/geom"
)

func testGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New(map[int]LayerSpec{
		2: {Direction: geom.Horizontal, Pitch: 10, Offset: 5},
		3: {Direction: geom.Vertical, Pitch: 10, Offset: 5},
		4: {Direction: geom.Horizontal, Pitch: 10, Offset: 5},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g
}

func TestNew_RejectsNonAlternatingDirections(t *testing.T) {
	_, err := New(map[int]LayerSpec{
		2: {Direction: geom.Horizontal, Pitch: 10},
		3: {Direction: geom.Horizontal, Pitch: 10},
	})
	if err == nil {
		t.Error("New() = nil error, want error for adjacent layers sharing a direction")
	}
}

func TestNew_RejectsZeroPitch(t *testing.T) {
	_, err := New(map[int]LayerSpec{2: {Direction: geom.Horizontal, Pitch: 0}})
	if err == nil {
		t.Error("New() = nil error, want error for zero pitch")
	}
}

func TestCoordToTrack_RoundModes(t *testing.T) {
	g := testGrid(t)

	tests := []struct {
		coord int
		mode  RoundMode
		want  int
	}{
		{15, RoundDown, 1},
		{15, RoundUp, 1},
		{16, RoundDown, 1},
		{16, RoundUp, 2},
		{16, RoundClosest, 1},
		{21, RoundClosest, 2},
		{20, RoundClosest, 2}, // midpoint between tracks 1 and 2 rounds up
		{4, RoundDown, -1},
		{4, RoundUp, 0},
	}
	for _, tt := range tests {
		if got := g.CoordToTrack(3, tt.coord, tt.mode); got != tt.want {
			t.Errorf("CoordToTrack(3, %d, %v) = %d, want %d", tt.coord, tt.mode, got, tt.want)
		}
	}
}

func TestTrackToCoord_RoundTrip(t *testing.T) {
	g := testGrid(t)
	for idx := -3; idx <= 3; idx++ {
		c := g.TrackToCoord(3, idx)
		if got := g.CoordToTrack(3, c, RoundClosest); got != idx {
			t.Errorf("CoordToTrack(TrackToCoord(%d)) = %d, want %d", idx, got, idx)
		}
	}
}

func TestWireBounds(t *testing.T) {
	g := testGrid(t)

	lo, hi := g.WireBounds(3, 0, 4)
	if lo != 3 || hi != 7 {
		t.Errorf("WireBounds(3, 0, 4) = (%d, %d), want (3, 7)", lo, hi)
	}
	if hi-lo != 4 {
		t.Errorf("wire span = %d, want width 4", hi-lo)
	}
}

func TestTrackID_IndicesAndSpan(t *testing.T) {
	g := testGrid(t)
	tid := TrackID{Layer: 3, Base: 1, Width: 4, Count: 3, Pitch: 2}

	want := []int{1, 3, 5}
	got := tid.Indices()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Indices() = %v, want %v", got, want)
		}
	}
	if tid.Last() != 5 {
		t.Errorf("Last() = %d, want 5", tid.Last())
	}

	lo, hi := tid.PhysicalSpan(g)
	// track 1 at coord 15, track 5 at coord 55, width 4
	if lo != 13 || hi != 57 {
		t.Errorf("PhysicalSpan() = (%d, %d), want (13, 57)", lo, hi)
	}
}

func TestBlockBBox_RoundsUp(t *testing.T) {
	g := testGrid(t)

	got := g.BlockBBox(4, geom.NewBBox(0, 0, 95, 94))
	want := geom.NewBBox(0, 0, 100, 100)
	if got != want {
		t.Errorf("BlockBBox() = %v, want %v", got, want)
	}

	// Already aligned boxes are unchanged.
	got = g.BlockBBox(4, geom.NewBBox(0, 0, 100, 100))
	if got != want {
		t.Errorf("BlockBBox(aligned) = %v, want %v", got, want)
	}
}

func TestTrackAxis(t *testing.T) {
	g := testGrid(t)
	if g.TrackAxis(3) != geom.Horizontal {
		t.Errorf("TrackAxis(3) = %v, want horizontal for a vertical layer", g.TrackAxis(3))
	}
}
