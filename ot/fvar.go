package ot

import "encoding/binary"

// AxisInfo describes one declared variation axis.
type AxisInfo struct {
	Tag          Tag
	MinValue     float32
	DefaultValue float32
	MaxValue     float32
	Flags        uint16
	NameID       uint16
}

// Fvar is the font variations table: the declared axes and any named
// instances (preset axis coordinate combinations, e.g. "Bold Condensed").
type Fvar struct {
	axes      []AxisInfo
	instances []NamedInstance
}

// NamedInstance is one preset point in the variation space.
type NamedInstance struct {
	NameID uint16
	Coords []float32 // one entry per axis, in fvar axis order
}

// HasData reports whether the table actually declares any axes. A nil
// *Fvar or one with zero axes both mean "this font is not variable".
func (f *Fvar) HasData() bool { return f != nil && len(f.axes) > 0 }

// AxisCount returns the number of declared axes.
func (f *Fvar) AxisCount() int { return len(f.axes) }

// AxisInfos returns the declared axes in table order.
func (f *Fvar) AxisInfos() []AxisInfo { return f.axes }

// NamedInstanceAt returns the named instance at index, and false if
// index is out of range.
func (f *Fvar) NamedInstanceAt(index int) (NamedInstance, bool) {
	if index < 0 || index >= len(f.instances) {
		return NamedInstance{}, false
	}
	return f.instances[index], true
}

// ParseFvar parses the fvar table.
func ParseFvar(data []byte) (*Fvar, error) {
	if len(data) < 16 {
		return nil, ErrInvalidTable
	}
	axesArrayOffset := binary.BigEndian.Uint16(data[4:])
	axisCount := int(binary.BigEndian.Uint16(data[8:]))
	axisSize := int(binary.BigEndian.Uint16(data[10:]))
	instanceCount := int(binary.BigEndian.Uint16(data[12:]))
	instanceSize := int(binary.BigEndian.Uint16(data[14:]))

	f := &Fvar{}
	base := int(axesArrayOffset)
	if base+axisCount*axisSize > len(data) {
		return nil, ErrInvalidTable
	}
	for i := 0; i < axisCount; i++ {
		off := base + i*axisSize
		f.axes = append(f.axes, AxisInfo{
			Tag:          Tag(binary.BigEndian.Uint32(data[off:])),
			MinValue:     fixedToFloat(binary.BigEndian.Uint32(data[off+4:])),
			DefaultValue: fixedToFloat(binary.BigEndian.Uint32(data[off+8:])),
			MaxValue:     fixedToFloat(binary.BigEndian.Uint32(data[off+12:])),
			Flags:        binary.BigEndian.Uint16(data[off+16:]),
			NameID:       binary.BigEndian.Uint16(data[off+18:]),
		})
	}

	instBase := base + axisCount*axisSize
	for i := 0; i < instanceCount; i++ {
		off := instBase + i*instanceSize
		if off+4+axisCount*4 > len(data) {
			break
		}
		inst := NamedInstance{
			NameID: binary.BigEndian.Uint16(data[off:]),
			Coords: make([]float32, axisCount),
		}
		for a := 0; a < axisCount; a++ {
			inst.Coords[a] = fixedToFloat(binary.BigEndian.Uint32(data[off+4+a*4:]))
		}
		f.instances = append(f.instances, inst)
	}
	return f, nil
}

func fixedToFloat(v uint32) float32 { return float32(int32(v)) / 65536.0 }

// NormalizeAxisValue clamps a user-space design coordinate for axis i
// to its declared [min,max] range and maps it to the -1..1 normalized
// space fvar itself defines (avar refines this further when present).
func (f *Fvar) NormalizeAxisValue(axisIndex int, designValue float32) float32 {
	if axisIndex < 0 || axisIndex >= len(f.axes) {
		return 0
	}
	a := f.axes[axisIndex]
	switch {
	case designValue < a.MinValue:
		designValue = a.MinValue
	case designValue > a.MaxValue:
		designValue = a.MaxValue
	}
	switch {
	case designValue == a.DefaultValue:
		return 0
	case designValue < a.DefaultValue:
		if a.DefaultValue == a.MinValue {
			return 0
		}
		return -(a.DefaultValue - designValue) / (a.DefaultValue - a.MinValue)
	default:
		if a.MaxValue == a.DefaultValue {
			return 0
		}
		return (designValue - a.DefaultValue) / (a.MaxValue - a.DefaultValue)
	}
}

// Avar holds the avar table's per-axis segment maps, which bend the
// fvar-normalized -1..1 coordinate space to match the font designer's
// intended interpolation density (e.g. making 0.5 land on a "Medium"
// master instead of linear midpoint).
type Avar struct {
	segmentMaps [][]avarPoint
}

type avarPoint struct {
	fromCoord, toCoord float64
}

// HasData reports whether the table lists at least one axis; the
// segment maps themselves are not inspected.
func (a *Avar) HasData() bool { return a != nil && len(a.segmentMaps) > 0 }

// ParseAvar parses the avar table.
func ParseAvar(data []byte) (*Avar, error) {
	if len(data) < 8 {
		return nil, ErrInvalidTable
	}
	axisCount := int(binary.BigEndian.Uint16(data[6:]))
	a := &Avar{segmentMaps: make([][]avarPoint, axisCount)}
	off := 8
	for i := 0; i < axisCount; i++ {
		if off+2 > len(data) {
			return nil, ErrInvalidOffset
		}
		count := int(binary.BigEndian.Uint16(data[off:]))
		off += 2
		if off+count*4 > len(data) {
			return nil, ErrInvalidOffset
		}
		pts := make([]avarPoint, count)
		for p := 0; p < count; p++ {
			pts[p] = avarPoint{
				fromCoord: readF2Dot14(data[off:]),
				toCoord:   readF2Dot14(data[off+2:]),
			}
			off += 4
		}
		a.segmentMaps[i] = pts
	}
	return a, nil
}

// MapCoords applies each axis's segment map to a slice of F2Dot14
// normalized coordinates (16384 == 1.0), returning the remapped
// coordinates in the same representation.
func (a *Avar) MapCoords(coordsI []int) []int {
	out := make([]int, len(coordsI))
	for i, c := range coordsI {
		if i >= len(a.segmentMaps) || len(a.segmentMaps[i]) == 0 {
			out[i] = c
			continue
		}
		out[i] = int(mapAvarAxis(a.segmentMaps[i], float64(c)/16384.0) * 16384.0)
	}
	return out
}

func mapAvarAxis(pts []avarPoint, v float64) float64 {
	for i := 1; i < len(pts); i++ {
		if v <= pts[i].fromCoord {
			prev := pts[i-1]
			cur := pts[i]
			if cur.fromCoord == prev.fromCoord {
				return cur.toCoord
			}
			t := (v - prev.fromCoord) / (cur.fromCoord - prev.fromCoord)
			return prev.toCoord + t*(cur.toCoord-prev.toCoord)
		}
	}
	if len(pts) > 0 {
		return pts[len(pts)-1].toCoord
	}
	return v
}

// Hvar carries per-glyph horizontal advance-width (and optionally
// left/right side bearing) deltas as a function of variation
// coordinates, letting a variable font adjust spacing without a
// dedicated static hmtx per instance.
type Hvar struct {
	varStore    *ItemVariationStore
	advanceMap  *DeltaSetIndexMap
	lsbMap      *DeltaSetIndexMap
	rsbMap      *DeltaSetIndexMap
}

// HasData reports whether the table parsed successfully.
func (h *Hvar) HasData() bool { return h != nil && h.varStore != nil }

// ParseHvar parses the HVAR table.
func ParseHvar(data []byte) (*Hvar, error) {
	if len(data) < 20 {
		return nil, ErrInvalidTable
	}
	varStoreOff := binary.BigEndian.Uint32(data[4:])
	advMapOff := binary.BigEndian.Uint32(data[8:])
	lsbMapOff := binary.BigEndian.Uint32(data[12:])
	rsbMapOff := binary.BigEndian.Uint32(data[16:])

	vs, err := ParseItemVariationStore(data, int(varStoreOff))
	if err != nil {
		return nil, err
	}
	h := &Hvar{varStore: vs}
	if advMapOff != 0 {
		m, err := parseDeltaSetIndexMap(data, int(advMapOff))
		if err != nil {
			return nil, err
		}
		h.advanceMap = m
	}
	if lsbMapOff != 0 {
		m, err := parseDeltaSetIndexMap(data, int(lsbMapOff))
		if err == nil {
			h.lsbMap = m
		}
	}
	if rsbMapOff != 0 {
		m, err := parseDeltaSetIndexMap(data, int(rsbMapOff))
		if err == nil {
			h.rsbMap = m
		}
	}
	return h, nil
}

// GetAdvanceDelta returns the variation delta to add to a glyph's
// default horizontal advance width at the given normalized
// (F2Dot14-scale) design coordinates.
func (h *Hvar) GetAdvanceDelta(glyph GlyphID, normalizedCoordsI []int) float64 {
	if h == nil || h.varStore == nil {
		return 0
	}
	var outer, inner uint16
	if h.advanceMap != nil {
		outer, inner = h.advanceMap.Lookup(int(glyph))
	} else {
		inner = uint16(glyph)
	}
	return h.varStore.GetDelta(outer, inner, normalizedCoordsI)
}

// Vvar carries per-glyph vertical advance-height (and optionally top/
// bottom side bearing and vertical origin) deltas as a function of
// variation coordinates — the vertical analog of Hvar, used when
// shaping vertical text on a variable font.
type Vvar struct {
	varStore  *ItemVariationStore
	advanceMap *DeltaSetIndexMap
	tsbMap     *DeltaSetIndexMap
	bsbMap     *DeltaSetIndexMap
	vOrgMap    *DeltaSetIndexMap
}

// HasData reports whether the table parsed successfully.
func (v *Vvar) HasData() bool { return v != nil && v.varStore != nil }

// ParseVvar parses the VVAR table. Its layout mirrors HVAR with one
// extra optional mapping (vOrgMapping) for vertical-origin deltas.
func ParseVvar(data []byte) (*Vvar, error) {
	if len(data) < 20 {
		return nil, ErrInvalidTable
	}
	varStoreOff := binary.BigEndian.Uint32(data[4:])
	advMapOff := binary.BigEndian.Uint32(data[8:])
	tsbMapOff := binary.BigEndian.Uint32(data[12:])
	bsbMapOff := binary.BigEndian.Uint32(data[16:])

	vs, err := ParseItemVariationStore(data, int(varStoreOff))
	if err != nil {
		return nil, err
	}
	v := &Vvar{varStore: vs}
	if advMapOff != 0 {
		m, err := parseDeltaSetIndexMap(data, int(advMapOff))
		if err != nil {
			return nil, err
		}
		v.advanceMap = m
	}
	if tsbMapOff != 0 {
		if m, err := parseDeltaSetIndexMap(data, int(tsbMapOff)); err == nil {
			v.tsbMap = m
		}
	}
	if bsbMapOff != 0 {
		if m, err := parseDeltaSetIndexMap(data, int(bsbMapOff)); err == nil {
			v.bsbMap = m
		}
	}
	if len(data) >= 24 {
		if vOrgMapOff := binary.BigEndian.Uint32(data[20:]); vOrgMapOff != 0 {
			if m, err := parseDeltaSetIndexMap(data, int(vOrgMapOff)); err == nil {
				v.vOrgMap = m
			}
		}
	}
	return v, nil
}

// GetAdvanceDelta returns the variation delta to add to a glyph's
// default vertical advance height at the given normalized coordinates.
func (v *Vvar) GetAdvanceDelta(glyph GlyphID, normalizedCoordsI []int) float64 {
	if v == nil || v.varStore == nil {
		return 0
	}
	var outer, inner uint16
	if v.advanceMap != nil {
		outer, inner = v.advanceMap.Lookup(int(glyph))
	} else {
		inner = uint16(glyph)
	}
	return v.varStore.GetDelta(outer, inner, normalizedCoordsI)
}

// GetVOrgDelta returns the variation delta to add to a glyph's default
// vertical origin Y coordinate, or 0 if the font has no per-glyph
// vOrgMapping (HarfBuzz falls back to the advance-height delta in that
// case; shaping only needs the origin for baseline computation, which
// this module does not perform, so the conservative 0 is used here).
func (v *Vvar) GetVOrgDelta(glyph GlyphID, normalizedCoordsI []int) float64 {
	if v == nil || v.varStore == nil || v.vOrgMap == nil {
		return 0
	}
	outer, inner := v.vOrgMap.Lookup(int(glyph))
	return v.varStore.GetDelta(outer, inner, normalizedCoordsI)
}

// Gvar carries per-glyph outline point deltas across the design space.
// Shaping only needs it as a phantom-point fallback for advance widths
// when a font lacks HVAR; full outline interpolation is out of scope.
type Gvar struct {
	data          []byte
	glyphVarOff   []uint32
	axisCount     int
	sharedTuples  [][]float64
}

// HasData reports whether gvar parsed with at least one glyph variation.
func (g *Gvar) HasData() bool { return g != nil && len(g.glyphVarOff) > 1 }

// ParseGvar parses just enough of the gvar table's header and glyph
// variation data offsets to support phantom-point advance fallback;
// it does not decode per-contour point deltas.
func ParseGvar(data []byte) (*Gvar, error) {
	if len(data) < 20 {
		return nil, ErrInvalidTable
	}
	axisCount := int(binary.BigEndian.Uint16(data[4:]))
	sharedTupleCount := int(binary.BigEndian.Uint16(data[6:]))
	sharedTupleOff := binary.BigEndian.Uint32(data[8:])
	glyphCount := int(binary.BigEndian.Uint16(data[12:]))
	flags := binary.BigEndian.Uint16(data[14:])
	glyphVarDataArrayOff := binary.BigEndian.Uint32(data[16:])

	longOffsets := flags&1 != 0
	offsets := make([]uint32, glyphCount+1)
	base := 20
	if longOffsets {
		for i := range offsets {
			if base+i*4+4 > len(data) {
				return nil, ErrInvalidOffset
			}
			offsets[i] = binary.BigEndian.Uint32(data[base+i*4:])
		}
	} else {
		for i := range offsets {
			if base+i*2+2 > len(data) {
				return nil, ErrInvalidOffset
			}
			offsets[i] = uint32(binary.BigEndian.Uint16(data[base+i*2:])) * 2
		}
	}
	for i := range offsets {
		offsets[i] += glyphVarDataArrayOff
	}

	tuples := make([][]float64, 0, sharedTupleCount)
	tOff := int(sharedTupleOff)
	for i := 0; i < sharedTupleCount; i++ {
		if tOff+axisCount*2 > len(data) {
			break
		}
		t := make([]float64, axisCount)
		for a := 0; a < axisCount; a++ {
			t[a] = readF2Dot14(data[tOff+a*2:])
		}
		tuples = append(tuples, t)
		tOff += axisCount * 2
	}

	return &Gvar{data: data, glyphVarOff: offsets, axisCount: axisCount, sharedTuples: tuples}, nil
}
