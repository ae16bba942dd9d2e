package ot

import "testing"

func TestCalcSubrBias(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 107},
		{1239, 107},
		{1240, 1131},
		{33899, 1131},
		{33900, 32768},
	}
	for _, c := range cases {
		if got := calcSubrBias(c.count); got != c.want {
			t.Errorf("calcSubrBias(%d) = %d, want %d", c.count, got, c.want)
		}
	}
}

func TestParseCFFIndexEmpty(t *testing.T) {
	data := []byte{0x00, 0x00} // count = 0
	entries, next, err := parseCFFIndex(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries, got %v", entries)
	}
	if next != 2 {
		t.Errorf("expected next offset 2, got %d", next)
	}
}

func TestParseCFFIndexTwoEntries(t *testing.T) {
	// count=2, offSize=1, offsets=[1,3,5] (1-based, relative to dataStart-1),
	// data = "ab" "cd"
	data := []byte{
		0x00, 0x02, // count
		0x01,             // offSize
		0x01, 0x03, 0x05, // offsets
		'a', 'b', 'c', 'd',
	}
	entries, next, err := parseCFFIndex(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if string(entries[0]) != "ab" || string(entries[1]) != "cd" {
		t.Errorf("unexpected entries: %q, %q", entries[0], entries[1])
	}
	if next != len(data) {
		t.Errorf("expected next offset %d, got %d", len(data), next)
	}
}

func TestParseCFFDictIntegerOperand(t *testing.T) {
	// operand 0 (single byte b0=139 encodes b0-139 = 0),
	// operator 17 (CharStrings)
	data := []byte{139, 17} // value 139-139=0, operator 17
	dict := parseCFFDict(data)
	vals, ok := dict[cffOpCharStrings]
	if !ok {
		t.Fatalf("expected operator 17 in dict")
	}
	if len(vals) != 1 || vals[0] != 0 {
		t.Errorf("expected operand [0], got %v", vals)
	}
}

func TestParseCFFDictTwoByteOperator(t *testing.T) {
	// Private DICT operator 18 (two operands: size, offset), then operator 19 inside
	// private dict is tested separately; here just check escape operator parses.
	// 12 7 => operator 1207 (arbitrary two-byte op), no operands.
	data := []byte{12, 7}
	dict := parseCFFDict(data)
	if _, ok := dict[1207]; !ok {
		t.Errorf("expected escape operator 1207 to be present, dict=%v", dict)
	}
}
