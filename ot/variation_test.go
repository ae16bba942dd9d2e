package ot

import "testing"

func TestRegionScalarAtPeakIsOne(t *testing.T) {
	r := variationRegion{axes: []axisRegion{{startCoord: 0, peakCoord: 0.5, endCoord: 1}}}
	if got := regionScalar(r, []int{8192}); got != 1.0 {
		t.Errorf("regionScalar at peak = %v, want 1.0", got)
	}
}

func TestRegionScalarOutsideBoxIsZero(t *testing.T) {
	r := variationRegion{axes: []axisRegion{{startCoord: 0, peakCoord: 0.5, endCoord: 1}}}
	for _, coord := range []int{-16384, -1, 16384} {
		if got := regionScalar(r, []int{coord}); got != 0 {
			t.Errorf("regionScalar(%d) = %v, want 0 (outside [start,end])", coord, got)
		}
	}
}

func TestRegionScalarLinearRampRisingSide(t *testing.T) {
	// One axis, region start=0 peak=0.5 end=1. At coord 0.25 (halfway between
	// start and peak) the tent function should give scalar 0.5.
	r := variationRegion{axes: []axisRegion{{startCoord: 0, peakCoord: 0.5, endCoord: 1}}}
	const coord = 4096 // 4096/16384 = 0.25
	got := regionScalar(r, []int{coord})
	want := 0.5
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("regionScalar(0.25) = %v, want %v", got, want)
	}
}

func TestRegionScalarBoundaryIsZero(t *testing.T) {
	// At the region's end coordinate the scalar must be exactly 0, not a
	// vanishingly small positive ramp value.
	r := variationRegion{axes: []axisRegion{{startCoord: 0, peakCoord: 0.5, endCoord: 1}}}
	if got := regionScalar(r, []int{16384}); got != 0 {
		t.Errorf("regionScalar at end boundary = %v, want 0", got)
	}
}

func TestRegionScalarFallingSide(t *testing.T) {
	r := variationRegion{axes: []axisRegion{{startCoord: 0, peakCoord: 0.5, endCoord: 1}}}
	const coord = 12288 // 12288/16384 = 0.75, halfway between peak and end
	got := regionScalar(r, []int{coord})
	want := 0.5
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("regionScalar(0.75) = %v, want %v", got, want)
	}
}

func TestRegionScalarZeroPeakAlwaysContributesOne(t *testing.T) {
	// An axis with peakCoord == 0 does not constrain the region (per the
	// OpenType item variation store algorithm); it must contribute a factor
	// of 1 regardless of the supplied coordinate.
	r := variationRegion{axes: []axisRegion{{startCoord: -1, peakCoord: 0, endCoord: 1}}}
	for _, coord := range []int{0, 8192, -8192, 16384} {
		if got := regionScalar(r, []int{coord}); got != 1.0 {
			t.Errorf("regionScalar with peak=0 at coord %d = %v, want 1.0", coord, got)
		}
	}
}

func TestRegionScalarMultiAxisMultipliesIndependently(t *testing.T) {
	r := variationRegion{axes: []axisRegion{
		{startCoord: 0, peakCoord: 1, endCoord: 1},
		{startCoord: 0, peakCoord: 0.5, endCoord: 1},
	}}
	// Axis 0 at its peak contributes 1; axis 1 halfway to peak contributes 0.5.
	got := regionScalar(r, []int{16384, 4096})
	want := 0.5
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("multi-axis regionScalar = %v, want %v", got, want)
	}
}

func TestRegionScalarMissingCoordDefaultsToZero(t *testing.T) {
	// Fewer coords than axes: the missing axis is treated as design
	// coordinate 0 (the default instance position), which falls at or
	// before this region's start and so contributes no scalar.
	r := variationRegion{axes: []axisRegion{{startCoord: 0.25, peakCoord: 0.5, endCoord: 1}}}
	if got := regionScalar(r, nil); got != 0 {
		t.Errorf("regionScalar with no coords = %v, want 0 (default coord 0 is at/before start)", got)
	}
}

func TestDeltaIsZeroAtDefaultCoords(t *testing.T) {
	// HVAR/VVAR item variation stores must report exactly zero delta when
	// queried at the font's default (all-zero) design coordinates, since
	// advance widths in hmtx already are the default-instance values and
	// every region's tent starts at the default origin.
	store := &ItemVariationStore{
		regions: []variationRegion{
			{axes: []axisRegion{{startCoord: 0, peakCoord: 1, endCoord: 1}}},
		},
		data: []itemVariationData{
			{regionIndexes: []uint16{0}, deltaSets: [][]int32{{40}, {-17}}},
		},
	}
	coords := []int{0}
	for item := uint16(0); item < 2; item++ {
		if got := store.GetDelta(0, item, coords); got != 0 {
			t.Errorf("GetDelta(item=%d) at default coords = %v, want 0", item, got)
		}
	}
}

func TestDeltaNonZeroAwayFromDefault(t *testing.T) {
	store := &ItemVariationStore{
		regions: []variationRegion{
			{axes: []axisRegion{{startCoord: 0, peakCoord: 1, endCoord: 1}}},
		},
		data: []itemVariationData{
			{regionIndexes: []uint16{0}, deltaSets: [][]int32{{100}}},
		},
	}
	// Full positive excursion: the region scalar is 1 at peak, so the
	// delta equals the stored row value exactly.
	if got := store.GetDelta(0, 0, []int{16384}); got != 100 {
		t.Errorf("GetDelta at peak = %v, want 100", got)
	}
}

func TestDeltaOutOfRangeIndexesReturnZero(t *testing.T) {
	store := &ItemVariationStore{
		regions: []variationRegion{{axes: []axisRegion{{startCoord: -1, peakCoord: 1, endCoord: 1}}}},
		data:    []itemVariationData{{regionIndexes: []uint16{0}, deltaSets: [][]int32{{5}}}},
	}
	if got := store.GetDelta(9, 0, []int{16384}); got != 0 {
		t.Errorf("GetDelta with out-of-range outerIndex = %v, want 0", got)
	}
	if got := store.GetDelta(0, 9, []int{16384}); got != 0 {
		t.Errorf("GetDelta with out-of-range innerIndex = %v, want 0", got)
	}
}
