package grid

// TrackID identifies a group of Count parallel, equally spaced wires on a
// layer: the first wire sits on track Base, subsequent wires every Pitch
// tracks. Width is the physical wire width in grid units.
//
// A single wire is a TrackID with Count 1; Pitch is then irrelevant but
// preserved so groups derived from the same spread stay comparable.
type TrackID struct {
	Layer int
	Base  int
	Width int
	Count int
	Pitch int
}

// Indices returns the track index of every wire in the group, in order.
func (t TrackID) Indices() []int {
	out := make([]int, t.Count)
	for i := range out {
		out[i] = t.Base + i*t.Pitch
	}
	return out
}

// Last returns the track index of the final wire in the group.
func (t TrackID) Last() int {
	return t.Base + (t.Count-1)*t.Pitch
}

// PhysicalSpan returns the coordinate range covered by the whole group on
// the layer's track axis, including the wire width at both ends.
func (t TrackID) PhysicalSpan(g *Grid) (lo, hi int) {
	lo, _ = g.WireBounds(t.Layer, t.Base, t.Width)
	_, hi = g.WireBounds(t.Layer, t.Last(), t.Width)
	return lo, hi
}
