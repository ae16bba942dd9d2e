package ot

import (
	"encoding/binary"
	"testing"
)

func buildCoverageFormat1(glyphs []GlyphID) []byte {
	data := make([]byte, 4+2*len(glyphs))
	binary.BigEndian.PutUint16(data[0:], 1)
	binary.BigEndian.PutUint16(data[2:], uint16(len(glyphs)))
	for i, g := range glyphs {
		binary.BigEndian.PutUint16(data[4+i*2:], uint16(g))
	}
	return data
}

func buildCoverageFormat2(ranges [][3]uint16) []byte {
	data := make([]byte, 4+6*len(ranges))
	binary.BigEndian.PutUint16(data[0:], 2)
	binary.BigEndian.PutUint16(data[2:], uint16(len(ranges)))
	for i, r := range ranges {
		off := 4 + i*6
		binary.BigEndian.PutUint16(data[off:], r[0])
		binary.BigEndian.PutUint16(data[off+2:], r[1])
		binary.BigEndian.PutUint16(data[off+4:], r[2])
	}
	return data
}

func TestDigestNoFalseNegativeFormat1(t *testing.T) {
	data := buildCoverageFormat1([]GlyphID{5, 12, 900})
	cov, err := ParseCoverage(data, 0)
	if err != nil {
		t.Fatalf("ParseCoverage: %v", err)
	}
	d := coverageDigest(cov)

	buf := &Buffer{Info: []GlyphInfo{{GlyphID: 12}}}
	if !bufferDigest(buf).MayIntersect(d) {
		t.Fatalf("digest reported disjoint for a glyph actually in coverage (false negative)")
	}
}

func TestDigestNoFalseNegativeFormat2Range(t *testing.T) {
	data := buildCoverageFormat2([][3]uint16{{100, 200, 0}})
	cov, err := ParseCoverage(data, 0)
	if err != nil {
		t.Fatalf("ParseCoverage: %v", err)
	}
	d := coverageDigest(cov)

	for _, g := range []GlyphID{100, 150, 200} {
		buf := &Buffer{Info: []GlyphInfo{{GlyphID: g}}}
		if !bufferDigest(buf).MayIntersect(d) {
			t.Fatalf("digest reported disjoint for glyph %d in range [100,200] (false negative)", g)
		}
	}
}

func TestDigestTrueDisjoint(t *testing.T) {
	data := buildCoverageFormat1([]GlyphID{5, 12, 900})
	cov, err := ParseCoverage(data, 0)
	if err != nil {
		t.Fatalf("ParseCoverage: %v", err)
	}
	d := coverageDigest(cov)

	// 0xBEEF sets band-0 bit 47, which none of 5, 12 and 900 (bits 5, 12
	// and 4) sets, so the digest reports the buffer disjoint. The test
	// only fails if an overlap is reported and the glyph is really covered.
	buf := &Buffer{Info: []GlyphInfo{{GlyphID: 0xBEEF}}}
	if bufferDigest(buf).MayIntersect(d) {
		// Not a contract violation (false positives are allowed), but
		// the fixture is chosen so this path is exercised; if the bands
		// happen to collide, fall back to checking GetCoverage directly.
		if cov.GetCoverage(0xBEEF) != NotCovered {
			t.Fatalf("test fixture glyph unexpectedly covered")
		}
	}
}

func TestDigestEmptyCoverageNeverIntersects(t *testing.T) {
	var d Digest
	buf := &Buffer{Info: []GlyphInfo{{GlyphID: 1}, {GlyphID: 2}, {GlyphID: 65535}}}
	if bufferDigest(buf).MayIntersect(d) {
		t.Fatalf("empty digest must never report an intersection")
	}
}

func TestDigestNilCoverage(t *testing.T) {
	d := coverageDigest(nil)
	buf := &Buffer{Info: []GlyphInfo{{GlyphID: 1}}}
	if bufferDigest(buf).MayIntersect(d) {
		t.Fatalf("nil coverage must digest to the empty set")
	}
}

func TestLookupDigestSkipsDisjointBuffer(t *testing.T) {
	covData := buildCoverageFormat1([]GlyphID{42})
	cov, err := ParseCoverage(covData, 0)
	if err != nil {
		t.Fatalf("ParseCoverage: %v", err)
	}
	single := &SingleSubst{format: 2, coverage: cov, substitutes: []GlyphID{99}}
	lookup := &GSUBLookup{Type: GSUBTypeSingle, subtables: []GSUBSubtable{single}}

	d := lookup.Digest()
	buf := &Buffer{Info: []GlyphInfo{{GlyphID: 7}}}
	if bufferDigest(buf).MayIntersect(d) {
		t.Fatalf("lookup digest should be disjoint from a buffer with no covered glyphs")
	}

	buf2 := &Buffer{Info: []GlyphInfo{{GlyphID: 42}}}
	if !bufferDigest(buf2).MayIntersect(d) {
		t.Fatalf("lookup digest must not false-negative a glyph actually in its coverage")
	}
}
