package ot

import "encoding/binary"

// Head represents the font header table: scaling, bounding box, and
// the flag that selects loca's offset width.
type Head struct {
	UnitsPerEm       uint16
	XMin, YMin       int16
	XMax, YMax       int16
	IndexToLocFormat int16 // 0: Offset16, 1: Offset32
}

// ParseHead parses the head table.
func ParseHead(data []byte) (*Head, error) {
	if len(data) < 54 {
		return nil, ErrInvalidTable
	}
	return &Head{
		UnitsPerEm:       binary.BigEndian.Uint16(data[18:]),
		XMin:             int16(binary.BigEndian.Uint16(data[36:])),
		YMin:             int16(binary.BigEndian.Uint16(data[38:])),
		XMax:             int16(binary.BigEndian.Uint16(data[40:])),
		YMax:             int16(binary.BigEndian.Uint16(data[42:])),
		IndexToLocFormat: int16(binary.BigEndian.Uint16(data[50:])),
	}, nil
}

// Hhea represents the horizontal header table.
type Hhea struct {
	Ascender         int16
	Descender        int16
	LineGap          int16
	AdvanceWidthMax  uint16
	NumberOfHMetrics uint16
}

// ParseHhea parses the hhea table.
func ParseHhea(data []byte) (*Hhea, error) {
	if len(data) < 36 {
		return nil, ErrInvalidTable
	}
	return &Hhea{
		Ascender:         int16(binary.BigEndian.Uint16(data[4:])),
		Descender:        int16(binary.BigEndian.Uint16(data[6:])),
		LineGap:          int16(binary.BigEndian.Uint16(data[8:])),
		AdvanceWidthMax:  binary.BigEndian.Uint16(data[10:]),
		NumberOfHMetrics: binary.BigEndian.Uint16(data[34:]),
	}, nil
}

// Maxp represents the maximum profile table.
type Maxp struct {
	NumGlyphs uint16
}

// ParseMaxp parses the maxp table (version 0.5 or 1.0; only
// numGlyphs, common to both, is needed for shaping).
func ParseMaxp(data []byte) (*Maxp, error) {
	if len(data) < 6 {
		return nil, ErrInvalidTable
	}
	return &Maxp{NumGlyphs: binary.BigEndian.Uint16(data[4:])}, nil
}

// OS2 represents the OS/2 and Windows metrics table, used here only
// for its legacy symbol-font page byte.
type OS2 struct {
	Version     uint16
	FsSelection uint16
}

// ParseOS2 parses the OS/2 table.
func ParseOS2(data []byte) (*OS2, error) {
	if len(data) < 64 {
		return nil, ErrInvalidTable
	}
	return &OS2{
		Version:     binary.BigEndian.Uint16(data[0:]),
		FsSelection: binary.BigEndian.Uint16(data[62:]),
	}, nil
}

// Hmtx represents the horizontal metrics table.
type Hmtx struct {
	hMetrics        []LongHorMetric
	leftBearings    []int16
	lastAdvanceWidth uint16
}

// LongHorMetric contains the advance width and left side bearing for a glyph.
type LongHorMetric struct {
	AdvanceWidth uint16
	Lsb          int16
}

// ParseHmtx parses the hmtx table given numberOfHMetrics (from hhea)
// and numGlyphs (from maxp).
func ParseHmtx(data []byte, numberOfHMetrics, numGlyphs int) (*Hmtx, error) {
	if numberOfHMetrics <= 0 {
		return nil, ErrInvalidTable
	}
	expectedSize := numberOfHMetrics*4 + (numGlyphs-numberOfHMetrics)*2
	if len(data) < expectedSize {
		return nil, ErrInvalidTable
	}

	h := &Hmtx{
		hMetrics:     make([]LongHorMetric, numberOfHMetrics),
		leftBearings: make([]int16, numGlyphs-numberOfHMetrics),
	}

	off := 0
	for i := 0; i < numberOfHMetrics; i++ {
		h.hMetrics[i].AdvanceWidth = binary.BigEndian.Uint16(data[off:])
		h.hMetrics[i].Lsb = int16(binary.BigEndian.Uint16(data[off+2:]))
		off += 4
	}
	if numberOfHMetrics > 0 {
		h.lastAdvanceWidth = h.hMetrics[numberOfHMetrics-1].AdvanceWidth
	}
	for i := 0; i < numGlyphs-numberOfHMetrics; i++ {
		h.leftBearings[i] = int16(binary.BigEndian.Uint16(data[off:]))
		off += 2
	}
	return h, nil
}

// ParseHmtxFromFont parses hmtx using the numberOfHMetrics/numGlyphs
// it reads from the font's own hhea and maxp tables.
func ParseHmtxFromFont(font *Font) (*Hmtx, error) {
	hheaData, err := font.TableData(TagHhea)
	if err != nil {
		return nil, err
	}
	hhea, err := ParseHhea(hheaData)
	if err != nil {
		return nil, err
	}
	hmtxData, err := font.TableData(TagHmtx)
	if err != nil {
		return nil, err
	}
	return ParseHmtx(hmtxData, int(hhea.NumberOfHMetrics), font.NumGlyphs())
}

// GetAdvanceWidth returns the advance width for a glyph.
func (h *Hmtx) GetAdvanceWidth(glyph GlyphID) uint16 {
	if h == nil {
		return 0
	}
	if int(glyph) < len(h.hMetrics) {
		return h.hMetrics[glyph].AdvanceWidth
	}
	return h.lastAdvanceWidth
}

// GetLsb returns the left side bearing for a glyph.
func (h *Hmtx) GetLsb(glyph GlyphID) int16 {
	if h == nil {
		return 0
	}
	if int(glyph) < len(h.hMetrics) {
		return h.hMetrics[glyph].Lsb
	}
	idx := int(glyph) - len(h.hMetrics)
	if idx >= 0 && idx < len(h.leftBearings) {
		return h.leftBearings[idx]
	}
	return 0
}
