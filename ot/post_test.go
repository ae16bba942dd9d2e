package ot

import (
	"encoding/binary"
	"testing"
)

func buildPostFormat1() []byte {
	data := make([]byte, 32)
	binary.BigEndian.PutUint32(data[0:], 0x00010000)
	return data
}

func buildPostFormat2(t *testing.T, glyphNameIndex []uint16, pascalStrings []string) []byte {
	t.Helper()
	var pool []byte
	for _, s := range pascalStrings {
		pool = append(pool, byte(len(s)))
		pool = append(pool, []byte(s)...)
	}

	data := make([]byte, 34+2*len(glyphNameIndex)+len(pool))
	binary.BigEndian.PutUint32(data[0:], 0x00020000)
	binary.BigEndian.PutUint16(data[32:], uint16(len(glyphNameIndex)))
	for i, idx := range glyphNameIndex {
		binary.BigEndian.PutUint16(data[34+i*2:], idx)
	}
	copy(data[34+2*len(glyphNameIndex):], pool)
	return data
}

func TestGetGlyphFromNameFormat1(t *testing.T) {
	p, err := ParsePostTable(buildPostFormat1())
	if err != nil {
		t.Fatalf("ParsePostTable: %v", err)
	}
	gid, ok := p.GetGlyphFromName("space")
	if !ok || gid != 3 {
		t.Errorf("GetGlyphFromName(space) = (%d, %v), want (3, true)", gid, ok)
	}
	if _, ok := p.GetGlyphFromName("nonexistentname"); ok {
		t.Errorf("GetGlyphFromName(nonexistentname) found, want not found")
	}
}

func TestGetGlyphFromNameFormat2CustomAndStandard(t *testing.T) {
	data := buildPostFormat2(t, []uint16{258, 3}, []string{"hello"})
	p, err := ParsePostTable(data)
	if err != nil {
		t.Fatalf("ParsePostTable: %v", err)
	}

	if gid, ok := p.GetGlyphFromName("hello"); !ok || gid != 0 {
		t.Errorf("GetGlyphFromName(hello) = (%d, %v), want (0, true)", gid, ok)
	}
	if gid, ok := p.GetGlyphFromName("space"); !ok || gid != 1 {
		t.Errorf("GetGlyphFromName(space) = (%d, %v), want (1, true)", gid, ok)
	}
}

func TestGetGlyphFromNameIndexMatchesLinearResultForDuplicates(t *testing.T) {
	// Two glyphs named "dup"; the cached index must resolve to the first
	// (lowest glyph ID), matching what a linear left-to-right scan would find.
	data := buildPostFormat2(t, []uint16{258, 258}, []string{"dup"})
	p, err := ParsePostTable(data)
	if err != nil {
		t.Fatalf("ParsePostTable: %v", err)
	}
	gid, ok := p.GetGlyphFromName("dup")
	if !ok || gid != 0 {
		t.Errorf("GetGlyphFromName(dup) = (%d, %v), want (0, true)", gid, ok)
	}
}

func TestGetGlyphFromNameRepeatedCallsConsistent(t *testing.T) {
	data := buildPostFormat2(t, []uint16{258}, []string{"only"})
	p, err := ParsePostTable(data)
	if err != nil {
		t.Fatalf("ParsePostTable: %v", err)
	}
	first, ok1 := p.GetGlyphFromName("only")
	second, ok2 := p.GetGlyphFromName("only")
	if first != second || ok1 != ok2 {
		t.Errorf("GetGlyphFromName not consistent across calls: (%d,%v) vs (%d,%v)", first, ok1, second, ok2)
	}
}
