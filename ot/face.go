package ot

// Face pairs a parsed Font with the metrics tables (head/hhea)
// needed to answer scale-independent size questions. A Font is
// immutable and safely shared across goroutines; callers needing
// per-thread variation coordinates should build one Shaper per Face
// per goroutine.
type Face struct {
	Font *Font

	unitsPerEm uint16
	ascender   int16
	descender  int16
	isCFF      bool
}

// LoadFaceFromData parses a font file (or one member of a TrueType
// Collection, selected by index) and builds a Face from it in one
// step.
func LoadFaceFromData(data []byte, index int) (*Face, error) {
	font, err := ParseFont(data, index)
	if err != nil {
		return nil, err
	}
	return NewFace(font)
}

// NewFace parses the metrics tables required by the shaping pipeline
// (head for unitsPerEm, hhea for ascender/descender) out of font.
func NewFace(font *Font) (*Face, error) {
	f := &Face{Font: font}

	if font.HasTable(TagHead) {
		data, err := font.TableData(TagHead)
		if err != nil {
			return nil, err
		}
		head, err := ParseHead(data)
		if err != nil {
			return nil, err
		}
		f.unitsPerEm = head.UnitsPerEm
	}
	if f.unitsPerEm == 0 {
		f.unitsPerEm = 1000
	}

	if font.HasTable(TagHhea) {
		data, err := font.TableData(TagHhea)
		if err != nil {
			return nil, err
		}
		hhea, err := ParseHhea(data)
		if err != nil {
			return nil, err
		}
		f.ascender = hhea.Ascender
		f.descender = hhea.Descender
	}

	f.isCFF = font.HasTable(TagCFF) || font.HasTable(TagCFF2)

	return f, nil
}

// Upem returns the font's units-per-em, the scale factor all glyph
// coordinates and advances are expressed in.
func (f *Face) Upem() int16 { return int16(f.unitsPerEm) }

// Ascender returns the font's typographic ascender in font units.
func (f *Face) Ascender() int16 { return f.ascender }

// Descender returns the font's typographic descender in font units
// (conventionally negative).
func (f *Face) Descender() int16 { return f.descender }

// Cmap parses and returns the face's cmap table, or nil if it has
// none or the table fails to parse.
func (f *Face) Cmap() *Cmap {
	data, err := f.Font.TableData(TagCmap)
	if err != nil {
		return nil
	}
	cmap, err := ParseCmap(data)
	if err != nil {
		return nil
	}
	return cmap
}

func (f *Face) getGlyf() *Glyf {
	font := f.Font
	if !font.HasTable(TagGlyf) || !font.HasTable(TagLoca) || !font.HasTable(TagHead) {
		return nil
	}
	headData, err := font.TableData(TagHead)
	if err != nil {
		return nil
	}
	head, err := ParseHead(headData)
	if err != nil {
		return nil
	}
	locaData, err := font.TableData(TagLoca)
	if err != nil {
		return nil
	}
	loca, err := ParseLoca(locaData, font.NumGlyphs(), head.IndexToLocFormat)
	if err != nil {
		return nil
	}
	glyfData, err := font.TableData(TagGlyf)
	if err != nil {
		return nil
	}
	g, err := ParseGlyf(glyfData, loca)
	if err != nil {
		return nil
	}
	return g
}

// getCFF parses and returns the face's CFF table (CFF2 is not parsed:
// its variable-font charstring format differs and nothing in the
// shaping pipeline needs variable CFF outlines), or nil if the font
// has neither or the table fails to parse.
func (f *Face) getCFF() *CFF {
	font := f.Font
	tag := TagCFF
	if !font.HasTable(tag) {
		if !font.HasTable(TagCFF2) {
			return nil
		}
		return nil
	}
	data, err := font.TableData(tag)
	if err != nil {
		return nil
	}
	cff, err := ParseCFF(data)
	if err != nil {
		return nil
	}
	return cff
}
