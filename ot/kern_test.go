package ot

import (
	"encoding/binary"
	"testing"
)

func buildKernFormat0Microsoft(pairs [][3]uint16) []byte {
	sub := make([]byte, 14+6*len(pairs))
	binary.BigEndian.PutUint16(sub[0:], 0)                    // subtable version
	binary.BigEndian.PutUint16(sub[2:], uint16(len(sub)))      // length
	binary.BigEndian.PutUint16(sub[4:], 0x0001)                // coverage: horizontal, not cross-stream
	binary.BigEndian.PutUint16(sub[6:], uint16(len(pairs)))    // nPairs
	for i, p := range pairs {
		off := 14 + i*6
		binary.BigEndian.PutUint16(sub[off:], p[0])
		binary.BigEndian.PutUint16(sub[off+2:], p[1])
		binary.BigEndian.PutUint16(sub[off+4:], p[2])
	}

	header := make([]byte, 4)
	binary.BigEndian.PutUint16(header[0:], 0) // version 0 (Microsoft)
	binary.BigEndian.PutUint16(header[2:], 1) // nTables
	return append(header, sub...)
}

func TestParseKernFormat0Microsoft(t *testing.T) {
	data := buildKernFormat0Microsoft([][3]uint16{{10, 20, 50}, {10, 21, 7}})
	k, err := ParseKern(data, 1000)
	if err != nil {
		t.Fatalf("ParseKern: %v", err)
	}
	if got := k.KernPair(10, 20); got != 50 {
		t.Errorf("KernPair(10,20) = %d, want 50", got)
	}
	if got := k.KernPair(10, 21); got != 7 {
		t.Errorf("KernPair(10,21) = %d, want 7", got)
	}
	if got := k.KernPair(10, 22); got != 0 {
		t.Errorf("KernPair(10,22) = %d, want 0 (no entry)", got)
	}
}

func TestKernPairSkipsSubtableViaDigest(t *testing.T) {
	data := buildKernFormat0Microsoft([][3]uint16{{10, 20, 50}})
	k, err := ParseKern(data, 1000)
	if err != nil {
		t.Fatalf("ParseKern: %v", err)
	}

	// Glyph 999 never appears as a left glyph in the only subtable; the
	// per-subtable digest must guarantee KernPair still returns 0 rather
	// than a false negative or crash.
	if got := k.KernPair(999, 20); got != 0 {
		t.Errorf("KernPair(999,20) = %d, want 0", got)
	}
	if !k.HasKerning() {
		t.Errorf("HasKerning() = false, want true")
	}
}
