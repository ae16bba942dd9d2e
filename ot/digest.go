package ot

import "encoding/binary"

// Digest is a conservative Bloom-like summary of a set of glyph IDs. It is
// used to short-circuit lookup application: before walking a buffer against
// a lookup's subtables, the buffer's digest is compared against the
// lookup's combined coverage digest. If the two digests cannot possibly
// intersect, every subtable in the lookup is skipped without ever touching
// a Coverage table.
//
// Three independent 64-bit bands are kept, each folding a different slice
// of the glyph ID's bits, so a false match in one band is unlikely to
// coincide with a false match in the others. The digest is conservative:
// it may report a possible intersection where none exists (false
// positive), but it must never report "no intersection" when one exists
// (false negative).
type Digest struct {
	bands [3]uint64
}

// digestShifts are the bit shifts applied to a glyph ID before reducing it
// modulo 64 for each band. Using different shifts decorrelates the bands so
// that a collision in one rarely coincides with a collision in another.
var digestShifts = [3]uint{0, 4, 9}

func digestBit(g GlyphID, shift uint) uint64 {
	return uint64(1) << (uint(g) >> shift & 63)
}

// Add folds a single glyph ID into the digest.
func (d *Digest) Add(g GlyphID) {
	for i, shift := range digestShifts {
		d.bands[i] |= digestBit(g, shift)
	}
}

// AddRange folds every glyph ID in [first, last] (inclusive) into the
// digest. Ranges of 65 or more glyphs (last-first >= 64) set all three
// bands to all ones directly rather than being iterated one glyph at a
// time; for bands 1 and 2 this sets more bits than the range's glyphs
// would, which can only add false positives, never false negatives.
func (d *Digest) AddRange(first, last GlyphID) {
	if last < first {
		return
	}
	if uint32(last)-uint32(first) >= 64 {
		d.bands[0] = ^uint64(0)
		d.bands[1] = ^uint64(0)
		d.bands[2] = ^uint64(0)
		return
	}
	g := first
	for {
		d.Add(g)
		if g == last {
			break
		}
		g++
	}
}

// Union folds every glyph in other into d.
func (d *Digest) Union(other Digest) {
	d.bands[0] |= other.bands[0]
	d.bands[1] |= other.bands[1]
	d.bands[2] |= other.bands[2]
}

// MayIntersect reports whether the glyph sets summarized by d and other
// could possibly share a glyph. false is a guarantee of disjointness; true
// is not a guarantee of intersection.
func (d Digest) MayIntersect(other Digest) bool {
	return d.bands[0]&other.bands[0] != 0 &&
		d.bands[1]&other.bands[1] != 0 &&
		d.bands[2]&other.bands[2] != 0
}

// coverageDigest builds the digest of every glyph covered by c. A nil
// coverage digests to the empty set, which never reports an intersection.
func coverageDigest(c *Coverage) Digest {
	var d Digest
	if c == nil {
		return d
	}
	switch c.format {
	case 1:
		for i := 0; i < c.glyphCount; i++ {
			g := GlyphID(binary.BigEndian.Uint16(c.data[c.glyphsOff+i*2:]))
			d.Add(g)
		}
	case 2:
		for i := 0; i < c.rangeCount; i++ {
			recOff := c.rangesOff + i*6
			start := GlyphID(binary.BigEndian.Uint16(c.data[recOff:]))
			end := GlyphID(binary.BigEndian.Uint16(c.data[recOff+2:]))
			d.AddRange(start, end)
		}
	}
	return d
}

// bufferDigest builds the digest of every glyph currently in buf.
func bufferDigest(buf *Buffer) Digest {
	var d Digest
	for i := range buf.Info {
		d.Add(buf.Info[i].GlyphID)
	}
	return d
}
