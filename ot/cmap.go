package ot

import (
	"encoding/binary"
	"sort"
)

// Cmap maps Unicode codepoints to glyph IDs. It picks one subtable at
// parse time following the platform/encoding preference order real
// shaping engines use (Windows full Unicode first, then Unicode
// platform encodings 4 and 6, Windows BMP, other Unicode platform
// encodings, and Mac Roman as a last resort) and exposes a single
// Lookup regardless of which subtable format backed it.
type Cmap struct {
	lookup func(cp Codepoint) (GlyphID, bool)
	// variation selectors (format 14), used for Unicode VS lookups
	uvsSelectors map[Codepoint]*uvsTable
	symbol       bool
	fontPage     uint16
}

type uvsTable struct {
	// default UVS ranges: glyph is found via the normal cmap
	nonDefault map[Codepoint]GlyphID
}

const (
	platformUnicode   = 0
	platformMac       = 1
	platformWindows   = 3
	encodingWinSymbol = 0
	encodingWinBMP    = 1
	encodingWinFull   = 10
)

// ParseCmap parses the cmap table and selects the best subtable.
func ParseCmap(data []byte) (*Cmap, error) {
	if len(data) < 4 {
		return nil, ErrInvalidTable
	}
	numTables := int(binary.BigEndian.Uint16(data[2:]))
	if 4+numTables*8 > len(data) {
		return nil, ErrInvalidTable
	}

	type record struct {
		platformID, encodingID uint16
		offset                 uint32
	}
	var records []record
	var uvsOffset uint32
	for i := 0; i < numTables; i++ {
		off := 4 + i*8
		r := record{
			platformID: binary.BigEndian.Uint16(data[off:]),
			encodingID: binary.BigEndian.Uint16(data[off+2:]),
			offset:     binary.BigEndian.Uint32(data[off+4:]),
		}
		if r.platformID == platformUnicode && r.encodingID == 5 {
			uvsOffset = r.offset
		}
		records = append(records, r)
	}

	best := -1
	bestScore := -1
	for i, r := range records {
		score := cmapScore(r.platformID, r.encodingID)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return nil, ErrTableNotFound
	}

	fn, err := parseCmapSubtable(data, int(records[best].offset))
	if err != nil {
		return nil, err
	}
	c := &Cmap{
		lookup: fn,
		symbol: records[best].platformID == platformWindows && records[best].encodingID == encodingWinSymbol,
	}
	if uvsOffset != 0 {
		uvs, err := parseFormat14(data, int(uvsOffset))
		if err == nil {
			c.uvsSelectors = uvs
		}
	}
	return c, nil
}

func cmapScore(platformID, encodingID uint16) int {
	switch {
	case platformID == platformWindows && encodingID == encodingWinFull:
		return 5
	case platformID == platformUnicode && encodingID == 5:
		return -1 // format-14 variation selectors, parsed separately
	case platformID == platformUnicode && encodingID >= 4:
		return 4
	case platformID == platformWindows && encodingID == encodingWinBMP:
		return 3
	case platformID == platformUnicode:
		return 2
	case platformID == platformMac:
		return 1
	default:
		return 0
	}
}

func parseCmapSubtable(data []byte, offset int) (func(Codepoint) (GlyphID, bool), error) {
	if offset+2 > len(data) {
		return nil, ErrInvalidOffset
	}
	format := binary.BigEndian.Uint16(data[offset:])
	switch format {
	case 4:
		return parseCmapFormat4(data, offset)
	case 6:
		return parseCmapFormat6(data, offset)
	case 12:
		return parseCmapFormat12(data, offset)
	case 0:
		return parseCmapFormat0(data, offset)
	default:
		return nil, ErrUnknownTableFormat
	}
}

func parseCmapFormat0(data []byte, offset int) (func(Codepoint) (GlyphID, bool), error) {
	if offset+262 > len(data) {
		return nil, ErrInvalidOffset
	}
	glyphs := data[offset+6 : offset+6+256]
	return func(cp Codepoint) (GlyphID, bool) {
		if cp > 255 {
			return 0, false
		}
		g := glyphs[cp]
		return GlyphID(g), g != 0
	}, nil
}

func parseCmapFormat4(data []byte, offset int) (func(Codepoint) (GlyphID, bool), error) {
	if offset+14 > len(data) {
		return nil, ErrInvalidOffset
	}
	segCountX2 := int(binary.BigEndian.Uint16(data[offset+6:]))
	segCount := segCountX2 / 2

	endCodeOff := offset + 14
	startCodeOff := endCodeOff + segCountX2 + 2
	idDeltaOff := startCodeOff + segCountX2
	idRangeOff := idDeltaOff + segCountX2
	if idRangeOff+segCountX2 > len(data) {
		return nil, ErrInvalidOffset
	}

	endCodes := make([]uint16, segCount)
	startCodes := make([]uint16, segCount)
	idDeltas := make([]int16, segCount)
	idRangeOffsets := make([]uint16, segCount)
	for i := 0; i < segCount; i++ {
		endCodes[i] = binary.BigEndian.Uint16(data[endCodeOff+i*2:])
		startCodes[i] = binary.BigEndian.Uint16(data[startCodeOff+i*2:])
		idDeltas[i] = int16(binary.BigEndian.Uint16(data[idDeltaOff+i*2:]))
		idRangeOffsets[i] = binary.BigEndian.Uint16(data[idRangeOff+i*2:])
	}

	return func(cp Codepoint) (GlyphID, bool) {
		if cp > 0xFFFF {
			return 0, false
		}
		c := uint16(cp)
		i := sort.Search(segCount, func(i int) bool { return endCodes[i] >= c })
		if i >= segCount || c < startCodes[i] {
			return 0, false
		}
		if idRangeOffsets[i] == 0 {
			return GlyphID(uint16(int32(c) + int32(idDeltas[i]))), true
		}
		glyphIndexAddr := idRangeOff + i*2 + int(idRangeOffsets[i]) + int(c-startCodes[i])*2
		if glyphIndexAddr+2 > len(data) {
			return 0, false
		}
		g := binary.BigEndian.Uint16(data[glyphIndexAddr:])
		if g == 0 {
			return 0, false
		}
		return GlyphID(uint16(int32(g) + int32(idDeltas[i]))), true
	}, nil
}

func parseCmapFormat6(data []byte, offset int) (func(Codepoint) (GlyphID, bool), error) {
	if offset+10 > len(data) {
		return nil, ErrInvalidOffset
	}
	first := binary.BigEndian.Uint16(data[offset+6:])
	count := int(binary.BigEndian.Uint16(data[offset+8:]))
	if offset+10+count*2 > len(data) {
		return nil, ErrInvalidOffset
	}
	glyphs := data[offset+10 : offset+10+count*2]
	return func(cp Codepoint) (GlyphID, bool) {
		if cp < Codepoint(first) || cp >= Codepoint(first)+Codepoint(count) {
			return 0, false
		}
		idx := int(cp - Codepoint(first))
		g := binary.BigEndian.Uint16(glyphs[idx*2:])
		return GlyphID(g), g != 0
	}, nil
}

func parseCmapFormat12(data []byte, offset int) (func(Codepoint) (GlyphID, bool), error) {
	if offset+16 > len(data) {
		return nil, ErrInvalidOffset
	}
	numGroups := int(binary.BigEndian.Uint32(data[offset+12:]))
	base := offset + 16
	if base+numGroups*12 > len(data) {
		return nil, ErrInvalidOffset
	}
	type group struct{ start, end, startGlyph uint32 }
	groups := make([]group, numGroups)
	for i := 0; i < numGroups; i++ {
		off := base + i*12
		groups[i] = group{
			start:      binary.BigEndian.Uint32(data[off:]),
			end:        binary.BigEndian.Uint32(data[off+4:]),
			startGlyph: binary.BigEndian.Uint32(data[off+8:]),
		}
	}
	return func(cp Codepoint) (GlyphID, bool) {
		u := uint32(cp)
		i := sort.Search(numGroups, func(i int) bool { return groups[i].end >= u })
		if i >= numGroups || u < groups[i].start {
			return 0, false
		}
		return GlyphID(groups[i].startGlyph + (u - groups[i].start)), true
	}, nil
}

func parseFormat14(data []byte, offset int) (map[Codepoint]*uvsTable, error) {
	if offset+10 > len(data) {
		return nil, ErrInvalidOffset
	}
	numRecords := int(binary.BigEndian.Uint32(data[offset+6:]))
	base := offset + 10
	if base+numRecords*11 > len(data) {
		return nil, ErrInvalidOffset
	}
	result := make(map[Codepoint]*uvsTable, numRecords)
	for i := 0; i < numRecords; i++ {
		off := base + i*11
		varSelector := uint32(data[off])<<16 | uint32(data[off+1])<<8 | uint32(data[off+2])
		nonDefaultOff := binary.BigEndian.Uint32(data[off+7:])
		t := &uvsTable{nonDefault: map[Codepoint]GlyphID{}}
		if nonDefaultOff != 0 {
			nOff := offset + int(nonDefaultOff)
			if nOff+4 <= len(data) {
				count := int(binary.BigEndian.Uint32(data[nOff:]))
				rb := nOff + 4
				for j := 0; j < count && rb+j*5+5 <= len(data); j++ {
					roff := rb + j*5
					unicode := uint32(data[roff])<<16 | uint32(data[roff+1])<<8 | uint32(data[roff+2])
					glyph := binary.BigEndian.Uint16(data[roff+3:])
					t.nonDefault[Codepoint(unicode)] = GlyphID(glyph)
				}
			}
		}
		result[Codepoint(varSelector)] = t
	}
	return result, nil
}

// Lookup returns the glyph mapped to a codepoint, or (0, false) if the
// cmap has no entry for it.
func (c *Cmap) Lookup(cp Codepoint) (GlyphID, bool) {
	if c == nil || c.lookup == nil {
		return 0, false
	}
	return c.lookup(cp)
}

// LookupVariation resolves cp as modified by the Unicode variation
// selector vs, returning the glyph for that specific variant sequence
// if the font's format-14 subtable declares a non-default mapping.
func (c *Cmap) LookupVariation(cp, vs Codepoint) (GlyphID, bool) {
	if c == nil || c.uvsSelectors == nil {
		return 0, false
	}
	t, ok := c.uvsSelectors[vs]
	if !ok {
		return 0, false
	}
	g, ok := t.nonDefault[cp]
	return g, ok
}

// IsSymbol reports whether the selected subtable is a Windows Symbol
// (platform 3, encoding 0) cmap, which maps codepoints from the
// Private Use Area instead of standard Unicode.
func (c *Cmap) IsSymbol() bool { return c != nil && c.symbol }

// SetFontPage records the OS/2-derived font page used to remap PUA
// codepoints for legacy symbol fonts (notably symbol Arabic fonts).
func (c *Cmap) SetFontPage(page uint16) {
	if c != nil {
		c.fontPage = page
	}
}

// FontPage returns the font page set via SetFontPage, or 0.
func (c *Cmap) FontPage() uint16 {
	if c == nil {
		return 0
	}
	return c.fontPage
}
