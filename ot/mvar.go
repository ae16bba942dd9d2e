package ot

import "encoding/binary"

// MVAR carries variations for font-wide metrics (underline thickness,
// strikeout position, default vertical origin, and similar values
// that would otherwise need a value-record per variation axis).
type MVAR struct {
	varStore *ItemVariationStore
	records  map[Tag]mvarValueRecord
}

type mvarValueRecord struct {
	outerIndex, innerIndex uint16
}

// ParseMVAR parses the MVAR table.
func ParseMVAR(data []byte) (*MVAR, error) {
	if len(data) < 12 {
		return nil, ErrInvalidTable
	}
	recordSize := int(binary.BigEndian.Uint16(data[6:]))
	recordCount := int(binary.BigEndian.Uint16(data[8:]))
	itemVarStoreOff := binary.BigEndian.Uint16(data[10:])

	m := &MVAR{records: make(map[Tag]mvarValueRecord, recordCount)}
	if itemVarStoreOff != 0 {
		vs, err := ParseItemVariationStore(data, int(itemVarStoreOff))
		if err != nil {
			return nil, err
		}
		m.varStore = vs
	}

	base := 12
	for i := 0; i < recordCount; i++ {
		off := base + i*recordSize
		if off+8 > len(data) {
			return nil, ErrInvalidOffset
		}
		tag := Tag(binary.BigEndian.Uint32(data[off:]))
		m.records[tag] = mvarValueRecord{
			outerIndex: binary.BigEndian.Uint16(data[off+4:]),
			innerIndex: binary.BigEndian.Uint16(data[off+6:]),
		}
	}
	return m, nil
}

// GetDelta returns the variation delta for a metric tag (e.g.
// MakeTag('u','n','d','o') for underline offset) at the given
// normalized design coordinates. Returns 0 if the font declares no
// variation for that metric.
func (m *MVAR) GetDelta(tag Tag, normalizedCoordsI []int) float64 {
	if m == nil || m.varStore == nil {
		return 0
	}
	rec, ok := m.records[tag]
	if !ok {
		return 0
	}
	return m.varStore.GetDelta(rec.outerIndex, rec.innerIndex, normalizedCoordsI)
}

// STAT holds style attribute records used to describe a variable
// font's named axis values for style-linking UIs (e.g. "Condensed",
// "Bold"). Shaping does not consume it directly; it is exposed for
// callers building font pickers on top of this package.
type STAT struct {
	axes          []AxisInfo
	elidedFallbackNameID uint16
}

// ParseSTAT parses the STAT table's design-axes array. The axis-value
// subtables (format 1-4) are not decoded since nothing in the shaping
// pipeline consumes them.
func ParseSTAT(data []byte) (*STAT, error) {
	if len(data) < 12 {
		return nil, ErrInvalidTable
	}
	designAxisSize := int(binary.BigEndian.Uint16(data[4:]))
	designAxisCount := int(binary.BigEndian.Uint16(data[6:]))
	designAxesOff := binary.BigEndian.Uint32(data[8:])

	s := &STAT{}
	base := int(designAxesOff)
	for i := 0; i < designAxisCount; i++ {
		off := base + i*designAxisSize
		if off+8 > len(data) {
			return nil, ErrInvalidOffset
		}
		s.axes = append(s.axes, AxisInfo{
			Tag:    Tag(binary.BigEndian.Uint32(data[off:])),
			NameID: binary.BigEndian.Uint16(data[off+4:]),
		})
	}
	return s, nil
}

// DesignAxes returns the axis tag/name records declared by the table.
func (s *STAT) DesignAxes() []AxisInfo { return s.axes }
