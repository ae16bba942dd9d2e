package ot

import (
	"encoding/binary"
	"testing"
)

func buildVorgFixture(t *testing.T) *VORG {
	t.Helper()
	data := make([]byte, 8+4*2)
	binary.BigEndian.PutUint16(data[4:], uint16(int16(100))) // defaultVertOriginY
	binary.BigEndian.PutUint16(data[6:], 2)                  // numRecords
	binary.BigEndian.PutUint16(data[8:], 5)                  // glyphIndex 5
	binary.BigEndian.PutUint16(data[10:], uint16(int16(200))) // vertOriginY
	binary.BigEndian.PutUint16(data[12:], 10)                 // glyphIndex 10
	binary.BigEndian.PutUint16(data[14:], uint16(int16(300))) // vertOriginY
	v, err := ParseVORG(data)
	if err != nil {
		t.Fatalf("ParseVORG: %v", err)
	}
	return v
}

func TestGetVertOriginYVariedNoVvarMatchesStatic(t *testing.T) {
	v := buildVorgFixture(t)
	if got := v.GetVertOriginYVaried(5, nil, []int{8192}); got != v.GetVertOriginY(5) {
		t.Errorf("GetVertOriginYVaried(nil vvar) = %d, want %d", got, v.GetVertOriginY(5))
	}
}

func TestGetVertOriginYVariedNoMappingMatchesStatic(t *testing.T) {
	v := buildVorgFixture(t)
	// A Vvar with data but no vOrgMap must leave the vertical origin unvaried.
	vvar := &Vvar{varStore: &ItemVariationStore{
		regions: []variationRegion{{axes: []axisRegion{{startCoord: 0, peakCoord: 1, endCoord: 1}}}},
		data:    []itemVariationData{{regionIndexes: []uint16{0}, deltaSets: [][]int32{{40}}}},
	}}
	if got := v.GetVertOriginYVaried(5, vvar, []int{16384}); got != v.GetVertOriginY(5) {
		t.Errorf("GetVertOriginYVaried(no vOrgMap) = %d, want %d (unvaried)", got, v.GetVertOriginY(5))
	}
}

func TestGetVertOriginYVariedDefaultFallback(t *testing.T) {
	v := buildVorgFixture(t)
	if got := v.GetVertOriginYVaried(999, nil, nil); got != 100 {
		t.Errorf("GetVertOriginYVaried(unmapped glyph) = %d, want 100 (default)", got)
	}
}
