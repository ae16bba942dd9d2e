package ot

import "testing"

func TestParseAATLookupFormat0(t *testing.T) {
	// format 0: array of uint16 values starting at glyph 0
	data := []byte{
		0x00, 0x00, // format 0
		0x00, 0x04, // glyph 0 -> class 4
		0x00, 0x05, // glyph 1 -> class 5
	}
	l, err := parseAATLookup(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := l.get(0); !ok || v != 4 {
		t.Errorf("glyph 0: got %v, %v", v, ok)
	}
	if v, ok := l.get(1); !ok || v != 5 {
		t.Errorf("glyph 1: got %v, %v", v, ok)
	}
	if _, ok := l.get(2); ok {
		t.Errorf("glyph 2 should be absent")
	}
}

func TestParseAATLookupFormat6(t *testing.T) {
	// format 6: binary-searchable (glyph, value) pairs
	data := []byte{
		0x00, 0x06, // format 6
		0x00, 0x02, // nUnits
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // binSrch header padding (8 bytes before entries)
		0x00, 0x0A, 0x00, 0x07, // glyph 10 -> value 7
		0x00, 0x14, 0x00, 0x08, // glyph 20 -> value 8
	}
	l, err := parseAATLookup(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := l.get(10); !ok || v != 7 {
		t.Errorf("glyph 10: got %v, %v", v, ok)
	}
	if v, ok := l.get(20); !ok || v != 8 {
		t.Errorf("glyph 20: got %v, %v", v, ok)
	}
}

func TestParseAATLookupFormat8(t *testing.T) {
	// format 8: trimmed array, firstGlyph=5, count=3
	data := []byte{
		0x00, 0x08, // format 8
		0x00, 0x05, // firstGlyph
		0x00, 0x03, // glyphCount
		0x00, 0x01, 0x00, 0x02, 0x00, 0x03,
	}
	l, err := parseAATLookup(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := l.get(6); !ok || v != 2 {
		t.Errorf("glyph 6: got %v, %v", v, ok)
	}
	if _, ok := l.get(8); ok {
		t.Errorf("glyph 8 out of range should be absent")
	}
}
