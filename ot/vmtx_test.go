package ot

import "testing"

func buildVmtxFixture(t *testing.T) *Vmtx {
	t.Helper()
	data := make([]byte, 8)
	// two vMetrics entries: glyph 0 -> (advance 1000, tsb 50), glyph 1 -> (800, 20)
	data[0], data[1] = 0x03, 0xE8 // 1000
	data[2], data[3] = 0x00, 0x32 // 50
	data[4], data[5] = 0x03, 0x20 // 800
	data[6], data[7] = 0x00, 0x14 // 20
	v, err := ParseVmtx(data, 2, 2)
	if err != nil {
		t.Fatalf("ParseVmtx: %v", err)
	}
	return v
}

func TestGetAdvanceHeightVariedNoVvarMatchesStatic(t *testing.T) {
	v := buildVmtxFixture(t)
	if got := v.GetAdvanceHeightVaried(0, nil, []int{8192}); got != v.GetAdvanceHeight(0) {
		t.Errorf("GetAdvanceHeightVaried(nil vvar) = %d, want %d", got, v.GetAdvanceHeight(0))
	}
}

func TestGetAdvanceHeightVariedAppliesDelta(t *testing.T) {
	v := buildVmtxFixture(t)
	vvar := &Vvar{
		varStore: &ItemVariationStore{
			regions: []variationRegion{{axes: []axisRegion{{startCoord: 0, peakCoord: 1, endCoord: 1}}}},
			data:    []itemVariationData{{regionIndexes: []uint16{0}, deltaSets: [][]int32{{40}}}},
		},
	}
	// normalized coord at the peak (1.0 in F2Dot14) -> full delta applied
	got := v.GetAdvanceHeightVaried(0, vvar, []int{16384})
	want := v.GetAdvanceHeight(0) + 40
	if got != want {
		t.Errorf("GetAdvanceHeightVaried = %d, want %d", got, want)
	}
}

func TestGetAdvanceHeightVariedClampsNonNegative(t *testing.T) {
	v := buildVmtxFixture(t)
	vvar := &Vvar{
		varStore: &ItemVariationStore{
			regions: []variationRegion{{axes: []axisRegion{{startCoord: 0, peakCoord: 1, endCoord: 1}}}},
			data:    []itemVariationData{{regionIndexes: []uint16{0}, deltaSets: [][]int32{{-100000}}}},
		},
	}
	if got := v.GetAdvanceHeightVaried(0, vvar, []int{16384}); got != 0 {
		t.Errorf("GetAdvanceHeightVaried with huge negative delta = %d, want 0 (clamped)", got)
	}
}
