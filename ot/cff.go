package ot

import "encoding/binary"

// CFF holds the subset of a parsed Compact Font Format table that the
// Type 2 charstring interpreter (cff_outline.go) needs to draw glyph
// outlines: the charstrings themselves and the
// global/local subroutine indexes they call into. CID-keyed fonts
// (per-glyph FDSelect/FDArray local subrs) are not supported — nothing
// in the shaping pipeline needs their outlines, only their GSUB/GPOS
// layout tables, which live in separate sfnt tables.
type CFF struct {
	CharStrings [][]byte
	GlobalSubrs [][]byte
	LocalSubrs  [][]byte
}

// calcSubrBias returns the bias added to a CFF subroutine call number
// before indexing its Subrs INDEX (CFF spec section 16, Type2 Charstring
// Format, "Subroutine operators").
func calcSubrBias(count int) int {
	switch {
	case count < 1240:
		return 107
	case count < 33900:
		return 1131
	default:
		return 32768
	}
}

// ParseCFF parses a CFF table far enough to extract CharStrings and
// the global/local Subrs INDEXes: header, Name INDEX, Top DICT INDEX,
// String INDEX, Global Subr INDEX, then CharStrings and Private/local
// Subrs offsets out of the first Top DICT.
func ParseCFF(data []byte) (*CFF, error) {
	if len(data) < 4 {
		return nil, ErrInvalidTable
	}
	hdrSize := int(data[2])
	if hdrSize > len(data) {
		return nil, ErrInvalidTable
	}
	off := hdrSize

	_, off, err := parseCFFIndex(data, off) // Name INDEX
	if err != nil {
		return nil, err
	}
	topDicts, off, err := parseCFFIndex(data, off) // Top DICT INDEX
	if err != nil {
		return nil, err
	}
	if len(topDicts) == 0 {
		return nil, ErrInvalidTable
	}
	_, off, err = parseCFFIndex(data, off) // String INDEX
	if err != nil {
		return nil, err
	}
	globalSubrs, _, err := parseCFFIndex(data, off) // Global Subr INDEX
	if err != nil {
		return nil, err
	}

	topDict := parseCFFDict(topDicts[0])

	cff := &CFF{GlobalSubrs: globalSubrs}

	if vals, ok := topDict[cffOpCharStrings]; ok && len(vals) == 1 {
		charStrings, _, err := parseCFFIndex(data, int(vals[0]))
		if err != nil {
			return nil, err
		}
		cff.CharStrings = charStrings
	}

	if vals, ok := topDict[cffOpPrivate]; ok && len(vals) == 2 {
		privSize, privOff := int(vals[0]), int(vals[1])
		if privOff >= 0 && privOff+privSize <= len(data) {
			privDict := parseCFFDict(data[privOff : privOff+privSize])
			if subrVals, ok := privDict[cffOpSubrs]; ok && len(subrVals) == 1 {
				localSubrs, _, err := parseCFFIndex(data, privOff+int(subrVals[0]))
				if err == nil {
					cff.LocalSubrs = localSubrs
				}
			}
		}
	}

	return cff, nil
}

// Top/Private DICT operators used (CFF spec Table 9/Table 23). Two-byte
// operators are encoded here as 1200+second_byte.
const (
	cffOpCharStrings = 17
	cffOpPrivate     = 18
	cffOpSubrs       = 19
)

// parseCFFIndex parses a CFF INDEX structure starting at offset,
// returning its entries and the offset immediately following it.
func parseCFFIndex(data []byte, offset int) ([][]byte, int, error) {
	if offset+2 > len(data) {
		return nil, 0, ErrInvalidOffset
	}
	count := int(binary.BigEndian.Uint16(data[offset:]))
	if count == 0 {
		return nil, offset + 2, nil
	}
	if offset+3 > len(data) {
		return nil, 0, ErrInvalidOffset
	}
	offSize := int(data[offset+2])
	if offSize < 1 || offSize > 4 {
		return nil, 0, ErrInvalidFormat
	}
	offArrayStart := offset + 3
	offArrayLen := (count + 1) * offSize
	if offArrayStart+offArrayLen > len(data) {
		return nil, 0, ErrInvalidOffset
	}
	readOff := func(i int) int {
		p := offArrayStart + i*offSize
		var v int
		for b := 0; b < offSize; b++ {
			v = v<<8 | int(data[p+b])
		}
		return v
	}
	dataStart := offArrayStart + offArrayLen - 1
	entries := make([][]byte, count)
	for i := 0; i < count; i++ {
		start := dataStart + readOff(i)
		end := dataStart + readOff(i+1)
		if start < 0 || end > len(data) || end < start {
			return nil, 0, ErrInvalidOffset
		}
		entries[i] = data[start:end]
	}
	return entries, dataStart + readOff(count), nil
}

// parseCFFDict decodes a CFF DICT's operator/operand pairs (CFF spec
// section 4). Operands are stored in encounter order keyed by operator;
// two-byte (12 x) operators are not needed by CharStrings/Private.
func parseCFFDict(data []byte) map[int][]float64 {
	dict := make(map[int][]float64)
	var operands []float64
	i := 0
	for i < len(data) {
		b0 := int(data[i])
		switch {
		case b0 <= 21:
			op := b0
			i++
			if b0 == 12 && i < len(data) {
				op = 1200 + int(data[i])
				i++
			}
			dict[op] = operands
			operands = nil
		case b0 == 28:
			if i+3 > len(data) {
				return dict
			}
			v := int16(uint16(data[i+1])<<8 | uint16(data[i+2]))
			operands = append(operands, float64(v))
			i += 3
		case b0 == 29:
			if i+5 > len(data) {
				return dict
			}
			v := int32(binary.BigEndian.Uint32(data[i+1:]))
			operands = append(operands, float64(v))
			i += 5
		case b0 == 30:
			// real number, nibble-encoded; only its length matters here
			// since outline extraction never reads real-valued operands.
			i++
			for i < len(data) {
				hi := data[i] >> 4
				lo := data[i] & 0xF
				i++
				if hi == 0xF || lo == 0xF {
					break
				}
			}
			operands = append(operands, 0)
		case b0 >= 32 && b0 <= 246:
			operands = append(operands, float64(b0-139))
			i++
		case b0 >= 247 && b0 <= 250:
			if i+2 > len(data) {
				return dict
			}
			operands = append(operands, float64((b0-247)*256+int(data[i+1])+108))
			i += 2
		case b0 >= 251 && b0 <= 254:
			if i+2 > len(data) {
				return dict
			}
			operands = append(operands, float64(-(b0-251)*256-int(data[i+1])-108))
			i += 2
		default:
			i++
		}
	}
	return dict
}
