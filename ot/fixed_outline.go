package ot

import "golang.org/x/image/math/fixed"

// FixedSegment mirrors Segment but in 26.6 fixed-point, the
// interchange format x/image's rasterizer and font packages expect at
// the boundary between shaping and rendering.
type FixedSegment struct {
	Op   SegmentOp
	Args [3]fixed.Point26_6
}

// ToFixed converts a GlyphOutline's points from font design units to
// 26.6 fixed-point, scaling by scale/upem (both in the same units,
// typically device pixels-per-em over unitsPerEm).
func (o GlyphOutline) ToFixed(scale, upem float32) []FixedSegment {
	if upem == 0 {
		upem = 1
	}
	factor := scale / upem
	out := make([]FixedSegment, len(o.Segments))
	for i, seg := range o.Segments {
		out[i].Op = seg.Op
		for j, arg := range seg.Args {
			out[i].Args[j] = fixed.Point26_6{
				X: fixed.Int26_6(arg.X * factor * 64),
				Y: fixed.Int26_6(arg.Y * factor * 64),
			}
		}
	}
	return out
}
