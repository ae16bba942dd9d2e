package ot

import "errors"

// Parser is a bounded big-endian cursor over a byte slice.
//
// It never allocates or copies the backing bytes: SliceFrom and Peek
// hand back views into the same array. Every read advances the
// cursor; reads past the end of the data return ErrOutOfBounds and
// leave the cursor at the end so callers that ignore the error still
// fail safely on the next read.
type Parser struct {
	data []byte
	pos  int
}

// NewParser wraps data in a Parser positioned at offset 0.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Offset returns the current cursor position.
func (p *Parser) Offset() int { return p.pos }

// SetOffset moves the cursor to an absolute position. It does not
// validate the position; out-of-range reads after an invalid
// SetOffset fail normally with ErrOutOfBounds.
func (p *Parser) SetOffset(offset int) { p.pos = offset }

// Skip advances the cursor by n bytes without reading.
func (p *Parser) Skip(n int) { p.pos += n }

// Len returns the number of bytes in the underlying data.
func (p *Parser) Len() int { return len(p.data) }

// Remaining returns the number of unread bytes.
func (p *Parser) Remaining() int { return len(p.data) - p.pos }

// Bytes returns the full backing slice (not just the unread part).
func (p *Parser) Bytes() []byte { return p.data }

func (p *Parser) need(n int) ([]byte, error) {
	if p.pos < 0 || n < 0 || p.pos+n > len(p.data) {
		return nil, ErrOutOfBounds
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

// U8 reads an unsigned 8-bit integer.
func (p *Parser) U8() (uint8, error) {
	b, err := p.need(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// I8 reads a signed 8-bit integer.
func (p *Parser) I8() (int8, error) {
	v, err := p.U8()
	return int8(v), err
}

// U16 reads a big-endian unsigned 16-bit integer.
func (p *Parser) U16() (uint16, error) {
	b, err := p.need(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// I16 reads a big-endian signed 16-bit integer.
func (p *Parser) I16() (int16, error) {
	v, err := p.U16()
	return int16(v), err
}

// U24 reads a big-endian unsigned 24-bit integer (used by several
// OpenType offset and version fields).
func (p *Parser) U24() (uint32, error) {
	b, err := p.need(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// U32 reads a big-endian unsigned 32-bit integer.
func (p *Parser) U32() (uint32, error) {
	b, err := p.need(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// I32 reads a big-endian signed 32-bit integer.
func (p *Parser) I32() (int32, error) {
	v, err := p.U32()
	return int32(v), err
}

// U64 reads a big-endian unsigned 64-bit integer (used by some
// cmap format-12 and version-4 tables).
func (p *Parser) U64() (uint64, error) {
	hi, err := p.U32()
	if err != nil {
		return 0, err
	}
	lo, err := p.U32()
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}

// Tag reads a four-byte table/script/feature/axis tag.
func (p *Parser) Tag() (Tag, error) {
	v, err := p.U32()
	return Tag(v), err
}

// Offset16 reads an unsigned 16-bit offset. It is a plain U16 read;
// the distinct name documents intent at call sites.
func (p *Parser) Offset16() (uint16, error) { return p.U16() }

// Offset32 reads an unsigned 32-bit offset.
func (p *Parser) Offset32() (uint32, error) { return p.U32() }

// Fixed reads a 16.16 fixed-point number and returns it as a float64.
func (p *Parser) Fixed() (float64, error) {
	v, err := p.I32()
	if err != nil {
		return 0, err
	}
	return float64(v) / 65536.0, nil
}

// F2Dot14 reads a 2.14 fixed-point number (used for normalized
// variation coordinates and variation-region axis boxes).
func (p *Parser) F2Dot14() (float64, error) {
	v, err := p.I16()
	if err != nil {
		return 0, err
	}
	return float64(v) / 16384.0, nil
}

// SliceFrom returns a new Parser over the same backing array starting
// at the given absolute offset. It does not move the receiver's
// cursor. Returns ErrBadOffset if offset is out of range.
func (p *Parser) SliceFrom(offset int) (*Parser, error) {
	if offset < 0 || offset > len(p.data) {
		return nil, ErrBadOffset
	}
	return &Parser{data: p.data[offset:]}, nil
}

// Bytes reads n raw bytes and returns a view into the backing array.
func (p *Parser) ReadBytes(n int) ([]byte, error) {
	return p.need(n)
}

// Peek runs fn against a copy of the parser (sharing position and
// data) and never mutates the receiver, regardless of what fn does
// to its own cursor.
func (p *Parser) Peek(fn func(p *Parser)) {
	cp := *p
	fn(&cp)
}

var (
	// ErrOutOfBounds is returned when a read would consume bytes past
	// the end of the parser's data.
	ErrOutOfBounds = errors.New("ot: read out of bounds")
	// ErrBadOffset is returned when slicing to an offset outside the
	// backing data.
	ErrBadOffset = errors.New("ot: offset out of range")
)
