package ot

import "testing"

func TestToFixedScaling(t *testing.T) {
	outline := GlyphOutline{
		Segments: []Segment{
			{Op: SegmentMoveTo, Args: [3]OutlinePoint{{X: 500, Y: 1000}}},
			{Op: SegmentLineTo, Args: [3]OutlinePoint{{X: 1000, Y: 0}}},
		},
	}

	// scale=16 (device px/em), upem=1000: factor = 16/1000 = 0.016
	fixedSegs := outline.ToFixed(16, 1000)
	if len(fixedSegs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(fixedSegs))
	}
	if fixedSegs[0].Op != SegmentMoveTo {
		t.Errorf("expected first op to stay MoveTo")
	}

	// 500 * (16/1000) * 64 = 512
	want := int32(512)
	got := int32(fixedSegs[0].Args[0].X)
	if got != want {
		t.Errorf("X = %d, want %d", got, want)
	}
}

func TestToFixedZeroUpem(t *testing.T) {
	outline := GlyphOutline{
		Segments: []Segment{
			{Op: SegmentMoveTo, Args: [3]OutlinePoint{{X: 10, Y: 10}}},
		},
	}
	// upem=0 should be treated as 1, not divide-by-zero.
	fixedSegs := outline.ToFixed(1, 0)
	if len(fixedSegs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(fixedSegs))
	}
}
