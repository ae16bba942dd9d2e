package ot

import "encoding/binary"

// aatLookup is a parsed AAT lookup table (Apple TrueType Reference
// Manual, "The 'lookup' table formats"), used both for morx class
// tables and for Noncontextual (type 4) glyph substitution. It maps a
// glyph ID to a 16-bit value; formats 0, 2, 4, 6 and 8 are supported.
type aatLookup struct {
	values map[GlyphID]uint16
}

// get returns the value for gid and whether it was present (absent
// entries are exposed distinctly from zero-valued ones).
func (l *aatLookup) get(gid GlyphID) (uint16, bool) {
	if l == nil {
		return 0, false
	}
	v, ok := l.values[gid]
	return v, ok
}

// parseAATLookup parses an AAT lookup table at data[offset:].
func parseAATLookup(data []byte, offset int) (*aatLookup, error) {
	if offset+2 > len(data) {
		return nil, ErrInvalidOffset
	}
	format := binary.BigEndian.Uint16(data[offset:])
	l := &aatLookup{values: make(map[GlyphID]uint16)}

	switch format {
	case 0: // simple array, one value per glyph starting at glyph 0
		pos := offset + 2
		for gid := 0; pos+2 <= len(data); gid++ {
			v := binary.BigEndian.Uint16(data[pos:])
			if v != 0xFFFF {
				l.values[GlyphID(gid)] = v
			}
			pos += 2
		}

	case 2: // segment single lookup: binary-searchable (last,first,value) triples
		if offset+12 > len(data) {
			return nil, ErrInvalidOffset
		}
		nUnits := int(binary.BigEndian.Uint16(data[offset+2:]))
		pos := offset + 12
		for i := 0; i < nUnits; i++ {
			if pos+6 > len(data) {
				break
			}
			last := binary.BigEndian.Uint16(data[pos:])
			first := binary.BigEndian.Uint16(data[pos+2:])
			value := binary.BigEndian.Uint16(data[pos+4:])
			if last != 0xFFFF {
				for gid := int(first); gid <= int(last); gid++ {
					l.values[GlyphID(gid)] = value
				}
			}
			pos += 6
		}

	case 4: // segment array lookup: (last,first,offsetToValues) triples
		if offset+12 > len(data) {
			return nil, ErrInvalidOffset
		}
		nUnits := int(binary.BigEndian.Uint16(data[offset+2:]))
		pos := offset + 12
		for i := 0; i < nUnits; i++ {
			if pos+6 > len(data) {
				break
			}
			last := binary.BigEndian.Uint16(data[pos:])
			first := binary.BigEndian.Uint16(data[pos+2:])
			valOff := int(binary.BigEndian.Uint16(data[pos+4:]))
			if last != 0xFFFF {
				base := offset + valOff
				for gid := int(first); gid <= int(last); gid++ {
					vp := base + (gid-int(first))*2
					if vp+2 <= len(data) {
						l.values[GlyphID(gid)] = binary.BigEndian.Uint16(data[vp:])
					}
				}
			}
			pos += 6
		}

	case 6: // single table lookup: binary-searchable (glyph,value) pairs
		if offset+12 > len(data) {
			return nil, ErrInvalidOffset
		}
		nUnits := int(binary.BigEndian.Uint16(data[offset+2:]))
		pos := offset + 12
		for i := 0; i < nUnits; i++ {
			if pos+4 > len(data) {
				break
			}
			gid := binary.BigEndian.Uint16(data[pos:])
			value := binary.BigEndian.Uint16(data[pos+2:])
			if gid != 0xFFFF {
				l.values[GlyphID(gid)] = value
			}
			pos += 4
		}

	case 8: // trimmed array: firstGlyph, glyphCount, then values
		if offset+6 > len(data) {
			return nil, ErrInvalidOffset
		}
		first := int(binary.BigEndian.Uint16(data[offset+2:]))
		count := int(binary.BigEndian.Uint16(data[offset+4:]))
		pos := offset + 6
		for i := 0; i < count; i++ {
			if pos+2 > len(data) {
				break
			}
			v := binary.BigEndian.Uint16(data[pos:])
			if v != 0xFFFF {
				l.values[GlyphID(first + i)] = v
			}
			pos += 2
		}

	default:
		return nil, ErrInvalidFormat
	}

	return l, nil
}
