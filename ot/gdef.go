package ot

import "encoding/binary"

// Glyph class values stored in GDEF's GlyphClassDef table.
const (
	GlyphClassBase      = 1
	GlyphClassLigature  = 2
	GlyphClassMark      = 3
	GlyphClassComponent = 4
)

// GDEF holds the glyph definition table: glyph classes, mark attachment
// classes, mark filtering sets, and the item variation store used to
// vary GPOS values across a design space.
type GDEF struct {
	majorVersion, minorVersion uint16

	glyphClass      *ClassDef
	markAttachClass *ClassDef
	markGlyphSets   []*Coverage // one per mark filtering set index

	varStore *ItemVariationStore
}

// ParseGDEF parses a GDEF table. Accepts versions 1.0 through 1.3; the
// attach-list and ligature-caret-list sub-tables are recognized but
// not decoded, since nothing in the shaping pipeline consumes them.
func ParseGDEF(data []byte) (*GDEF, error) {
	if len(data) < 12 {
		return nil, ErrInvalidTable
	}
	g := &GDEF{
		majorVersion: binary.BigEndian.Uint16(data[0:]),
		minorVersion: binary.BigEndian.Uint16(data[2:]),
	}
	if g.majorVersion != 1 {
		return nil, ErrUnknownTableFormat
	}

	glyphClassOff := binary.BigEndian.Uint16(data[4:])
	// attachListOff := binary.BigEndian.Uint16(data[6:])
	// ligCaretListOff := binary.BigEndian.Uint16(data[8:])
	markAttachOff := binary.BigEndian.Uint16(data[10:])

	if glyphClassOff != 0 {
		cd, err := ParseClassDef(data, int(glyphClassOff))
		if err != nil {
			return nil, err
		}
		g.glyphClass = cd
	}
	if markAttachOff != 0 {
		cd, err := ParseClassDef(data, int(markAttachOff))
		if err != nil {
			return nil, err
		}
		g.markAttachClass = cd
	}

	if g.minorVersion >= 2 && len(data) >= 14 {
		markGlyphSetsOff := binary.BigEndian.Uint16(data[12:])
		if markGlyphSetsOff != 0 {
			sets, err := parseMarkGlyphSets(data, int(markGlyphSetsOff))
			if err != nil {
				return nil, err
			}
			g.markGlyphSets = sets
		}
	}

	if g.minorVersion >= 3 && len(data) >= 18 {
		varStoreOff := binary.BigEndian.Uint32(data[14:])
		if varStoreOff != 0 {
			vs, err := ParseItemVariationStore(data, int(varStoreOff))
			if err != nil {
				return nil, err
			}
			g.varStore = vs
		}
	}

	return g, nil
}

func parseMarkGlyphSets(data []byte, offset int) ([]*Coverage, error) {
	if offset+4 > len(data) {
		return nil, ErrInvalidOffset
	}
	format := binary.BigEndian.Uint16(data[offset:])
	if format != 1 {
		return nil, ErrInvalidFormat
	}
	count := int(binary.BigEndian.Uint16(data[offset+2:]))
	if offset+4+count*4 > len(data) {
		return nil, ErrInvalidOffset
	}
	sets := make([]*Coverage, count)
	for i := 0; i < count; i++ {
		off := binary.BigEndian.Uint32(data[offset+4+i*4:])
		if off == 0 {
			continue
		}
		cov, err := ParseCoverage(data, int(off))
		if err != nil {
			return nil, err
		}
		sets[i] = cov
	}
	return sets, nil
}

// Version returns the major and minor version of the parsed table.
func (g *GDEF) Version() (major, minor uint16) { return g.majorVersion, g.minorVersion }

// HasGlyphClasses reports whether a GlyphClassDef sub-table was present.
func (g *GDEF) HasGlyphClasses() bool { return g.glyphClass != nil }

// GetGlyphClass returns the glyph's class (one of the GlyphClass*
// constants), or 0 if the glyph is unclassified or there is no
// GlyphClassDef sub-table.
func (g *GDEF) GetGlyphClass(glyph GlyphID) int {
	if g.glyphClass == nil {
		return 0
	}
	return g.glyphClass.GetClass(glyph)
}

// HasAttachList reports false: the attach-list sub-table is not parsed.
func (g *GDEF) HasAttachList() bool { return false }

// HasLigCaretList reports false: the ligature-caret-list sub-table is
// not parsed.
func (g *GDEF) HasLigCaretList() bool { return false }

// HasMarkAttachClasses reports whether a MarkAttachClassDef sub-table
// was present.
func (g *GDEF) HasMarkAttachClasses() bool { return g.markAttachClass != nil }

// GetMarkAttachClass returns the glyph's mark attachment class, or 0
// if the glyph has none.
func (g *GDEF) GetMarkAttachClass(glyph GlyphID) int {
	if g.markAttachClass == nil {
		return 0
	}
	return g.markAttachClass.GetClass(glyph)
}

// HasMarkGlyphSets reports whether any mark filtering sets were defined.
func (g *GDEF) HasMarkGlyphSets() bool { return len(g.markGlyphSets) > 0 }

// MarkGlyphSetCount returns the number of mark filtering sets.
func (g *GDEF) MarkGlyphSetCount() int { return len(g.markGlyphSets) }

// IsInMarkGlyphSet reports whether glyph belongs to mark filtering set
// setIndex. Returns false for an out-of-range index.
func (g *GDEF) IsInMarkGlyphSet(setIndex int, glyph GlyphID) bool {
	if setIndex < 0 || setIndex >= len(g.markGlyphSets) {
		return false
	}
	cov := g.markGlyphSets[setIndex]
	if cov == nil {
		return false
	}
	return cov.GetCoverage(glyph) != NotCovered
}

// HasVariations reports whether an item variation store is present,
// letting GPOS values for this font vary across the design space.
func (g *GDEF) HasVariations() bool { return g.varStore != nil }

// VarStore returns the item variation store, or nil if absent.
func (g *GDEF) VarStore() *ItemVariationStore { return g.varStore }
