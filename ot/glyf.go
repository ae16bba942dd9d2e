package ot

import "encoding/binary"

// composite glyph component flags (TrueType glyf spec).
const (
	argAreWords    = 1 << 0
	argsAreXY      = 1 << 1
	weHaveAScale   = 1 << 3
	moreComponents = 1 << 5
	weHaveXYScale  = 1 << 6
	weHave2x2      = 1 << 7
)

// Loca holds per-glyph offsets into the glyf table.
type Loca struct {
	offsets []uint32
}

// ParseLoca parses the loca table. format is head's IndexToLocFormat
// (0 for Offset16, 1 for Offset32).
func ParseLoca(data []byte, numGlyphs int, format int16) (*Loca, error) {
	n := numGlyphs + 1
	l := &Loca{offsets: make([]uint32, n)}
	if format == 0 {
		if len(data) < n*2 {
			return nil, ErrInvalidTable
		}
		for i := 0; i < n; i++ {
			l.offsets[i] = uint32(binary.BigEndian.Uint16(data[i*2:])) * 2
		}
	} else {
		if len(data) < n*4 {
			return nil, ErrInvalidTable
		}
		for i := 0; i < n; i++ {
			l.offsets[i] = binary.BigEndian.Uint32(data[i*4:])
		}
	}
	return l, nil
}

// GlyphExtents is a glyph's ink bounding box in font design units.
type GlyphExtents struct {
	XBearing, YBearing int16
	Width, Height      int16
}

// GlyphData is one glyph's raw glyf-table record.
type GlyphData struct {
	NumberOfContours int16
	XMin, YMin       int16
	XMax, YMax       int16
	Data             []byte // full glyph record, header included
}

// Glyf holds the outline table, resolved against loca's per-glyph offsets.
type Glyf struct {
	data []byte
	loca *Loca
}

// ParseGlyf wraps the glyf table's raw bytes together with the already
// parsed loca offsets; individual glyph records are sliced out lazily.
func ParseGlyf(data []byte, loca *Loca) (*Glyf, error) {
	if loca == nil {
		return nil, ErrMissingRequiredTable
	}
	return &Glyf{data: data, loca: loca}, nil
}

// GetGlyph returns the raw glyph record for gid, or nil if the glyph
// is empty (zero-length, e.g. space) or out of range.
func (g *Glyf) GetGlyph(gid GlyphID) *GlyphData {
	if g == nil || int(gid)+1 >= len(g.loca.offsets) {
		return nil
	}
	start := g.loca.offsets[gid]
	end := g.loca.offsets[gid+1]
	if end <= start || int(end) > len(g.data) {
		return nil
	}
	rec := g.data[start:end]
	if len(rec) < 10 {
		return nil
	}
	return &GlyphData{
		NumberOfContours: int16(binary.BigEndian.Uint16(rec[0:])),
		XMin:             int16(binary.BigEndian.Uint16(rec[2:])),
		YMin:             int16(binary.BigEndian.Uint16(rec[4:])),
		XMax:             int16(binary.BigEndian.Uint16(rec[6:])),
		YMax:             int16(binary.BigEndian.Uint16(rec[8:])),
		Data:             rec,
	}
}

// GetGlyphBytes returns the raw glyf record bytes for gid, or nil.
func (g *Glyf) GetGlyphBytes(gid GlyphID) []byte {
	glyph := g.GetGlyph(gid)
	if glyph == nil {
		return nil
	}
	return glyph.Data
}

// GetGlyphExtents returns the glyph's static bounding box as recorded
// in its glyf header. Returns false for an empty or missing glyph.
func (g *Glyf) GetGlyphExtents(gid GlyphID) (GlyphExtents, bool) {
	glyph := g.GetGlyph(gid)
	if glyph == nil {
		return GlyphExtents{}, false
	}
	return GlyphExtents{
		XBearing: glyph.XMin,
		YBearing: glyph.YMax,
		Width:    glyph.XMax - glyph.XMin,
		Height:   glyph.YMin - glyph.YMax,
	}, true
}

// GetContourPointCount returns the number of on-curve and off-curve
// points in a simple glyph's outline, or 0 for composite or missing
// glyphs. Used to size phantom-point arrays for gvar interpolation.
func (g *Glyf) GetContourPointCount(gid GlyphID) int {
	glyph := g.GetGlyph(gid)
	if glyph == nil || glyph.NumberOfContours <= 0 {
		return 0
	}
	points, _, err := ParseSimpleGlyph(glyph.Data)
	if err != nil {
		return 0
	}
	return len(points)
}

// ContourPoint is one point of a simple glyph's outline.
type ContourPoint struct {
	X, Y    int16
	OnCurve bool
}

// ParseSimpleGlyph decodes a simple glyph's (non-composite) points,
// returning them flattened across all contours together with the
// per-contour end-point indices.
func ParseSimpleGlyph(data []byte) ([]ContourPoint, []int, error) {
	if len(data) < 10 {
		return nil, nil, ErrInvalidTable
	}
	numberOfContours := int(int16(binary.BigEndian.Uint16(data[0:])))
	if numberOfContours <= 0 {
		return nil, nil, ErrInvalidTable
	}
	off := 10
	if off+numberOfContours*2 > len(data) {
		return nil, nil, ErrInvalidOffset
	}
	endPts := make([]int, numberOfContours)
	for i := 0; i < numberOfContours; i++ {
		endPts[i] = int(binary.BigEndian.Uint16(data[off+i*2:]))
	}
	off += numberOfContours * 2

	numPoints := 0
	if numberOfContours > 0 {
		numPoints = endPts[numberOfContours-1] + 1
	}

	if off+2 > len(data) {
		return nil, nil, ErrInvalidOffset
	}
	instructionLength := int(binary.BigEndian.Uint16(data[off:]))
	off += 2 + instructionLength
	if off > len(data) {
		return nil, nil, ErrInvalidOffset
	}

	const (
		flagOnCurve      = 1 << 0
		flagXShort       = 1 << 1
		flagYShort       = 1 << 2
		flagRepeat       = 1 << 3
		flagXSame        = 1 << 4
		flagYSame        = 1 << 5
	)

	flags := make([]byte, 0, numPoints)
	for len(flags) < numPoints {
		if off >= len(data) {
			return nil, nil, ErrInvalidOffset
		}
		f := data[off]
		off++
		flags = append(flags, f)
		if f&flagRepeat != 0 {
			if off >= len(data) {
				return nil, nil, ErrInvalidOffset
			}
			repeat := int(data[off])
			off++
			for r := 0; r < repeat && len(flags) < numPoints; r++ {
				flags = append(flags, f)
			}
		}
	}

	xs := make([]int16, numPoints)
	x := int16(0)
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&flagXShort != 0:
			if off >= len(data) {
				return nil, nil, ErrInvalidOffset
			}
			d := int16(data[off])
			off++
			if f&flagXSame == 0 {
				d = -d
			}
			x += d
		case f&flagXSame != 0:
			// delta 0
		default:
			if off+2 > len(data) {
				return nil, nil, ErrInvalidOffset
			}
			x += int16(binary.BigEndian.Uint16(data[off:]))
			off += 2
		}
		xs[i] = x
	}

	ys := make([]int16, numPoints)
	y := int16(0)
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&flagYShort != 0:
			if off >= len(data) {
				return nil, nil, ErrInvalidOffset
			}
			d := int16(data[off])
			off++
			if f&flagYSame == 0 {
				d = -d
			}
			y += d
		case f&flagYSame != 0:
			// delta 0
		default:
			if off+2 > len(data) {
				return nil, nil, ErrInvalidOffset
			}
			y += int16(binary.BigEndian.Uint16(data[off:]))
			off += 2
		}
		ys[i] = y
	}

	points := make([]ContourPoint, numPoints)
	for i := range points {
		points[i] = ContourPoint{X: xs[i], Y: ys[i], OnCurve: flags[i]&flagOnCurve != 0}
	}
	return points, endPts, nil
}
