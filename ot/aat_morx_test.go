package ot

import (
	"encoding/binary"
	"testing"
)

// buildMorxNoncontextual builds a minimal 'morx' table with a single
// chain containing a single Noncontextual (type 4) subtable whose
// payload is a format-0 AAT lookup mapping glyph 5 -> 6.
func buildMorxNoncontextual() []byte {
	lookup := []byte{
		0x00, 0x00, // format 0
		0x00, 0x00, // glyph 0 -> 0 (no-op, but keeps the array non-empty)
		0x00, 0x00, // glyph 1 -> 0
		0x00, 0x00, // glyph 2 -> 0
		0x00, 0x00, // glyph 3 -> 0
		0x00, 0x00, // glyph 4 -> 0
		0x00, 0x06, // glyph 5 -> 6
	}

	subtableHeader := make([]byte, 12)
	binary.BigEndian.PutUint32(subtableHeader[0:], uint32(12+len(lookup))) // length
	binary.BigEndian.PutUint32(subtableHeader[4:], morxTypeNoncontextual)  // coverage (type in low byte)
	binary.BigEndian.PutUint32(subtableHeader[8:], 0)                     // subFeatureFlags
	subtable := append(subtableHeader, lookup...)

	chainHeader := make([]byte, 16)
	binary.BigEndian.PutUint32(chainHeader[0:], 0)                      // defaultFlags
	binary.BigEndian.PutUint32(chainHeader[4:], uint32(16+len(subtable))) // chainLength
	binary.BigEndian.PutUint32(chainHeader[8:], 0)                      // nFeatureEntries
	binary.BigEndian.PutUint32(chainHeader[12:], 1)                     // nSubtables
	chain := append(chainHeader, subtable...)

	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header[4:], 1) // nChains
	return append(header, chain...)
}

func TestParseMorxNoncontextual(t *testing.T) {
	data := buildMorxNoncontextual()
	m, err := ParseMorx(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(m.chains))
	}
	if len(m.chains[0].subtables) != 1 {
		t.Fatalf("expected 1 subtable, got %d", len(m.chains[0].subtables))
	}
	if m.chains[0].subtables[0].subtableType != morxTypeNoncontextual {
		t.Errorf("expected noncontextual subtable type, got %d", m.chains[0].subtables[0].subtableType)
	}
}

func TestMorxApplyNoncontextualSubstitution(t *testing.T) {
	data := buildMorxNoncontextual()
	m, err := ParseMorx(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := &Buffer{
		Info: []GlyphInfo{{GlyphID: 5, Cluster: 0}, {GlyphID: 9, Cluster: 1}},
		Pos:  []GlyphPos{{}, {}},
	}
	m.Apply(buf)

	if buf.Info[0].GlyphID != 6 {
		t.Errorf("expected glyph 5 to substitute to 6, got %d", buf.Info[0].GlyphID)
	}
	if buf.Info[1].GlyphID != 9 {
		t.Errorf("expected glyph 9 (outside the lookup array) to be left unchanged, got %d", buf.Info[1].GlyphID)
	}
}
