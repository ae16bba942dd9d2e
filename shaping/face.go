package shaping

import "github.com/inkstroke/shaping/ot"

// Variation is one axis/value pair for Face.SetVariations.
type Variation = ot.Variation

// Face pairs a Font with a mutable set of variation-axis coordinates
// and the compiled shaping tables derived from it. A Face is not safe
// for concurrent shape calls — build one Face per goroutine sharing
// the same underlying Font.
type Face struct {
	Font   Font
	face   *ot.Face
	shaper *ot.Shaper
}

// NewFace builds a Face ready to shape text. variations, if non-nil,
// is applied immediately (equivalent to calling SetVariations after).
func NewFace(font Font, variations []Variation) (*Face, error) {
	otFace, err := ot.NewFace(font.inner)
	if err != nil {
		return nil, err
	}
	shaper, err := ot.NewShaperFromFace(otFace)
	if err != nil {
		return nil, err
	}
	face := &Face{Font: font, face: otFace, shaper: shaper}
	if len(variations) > 0 {
		face.SetVariations(variations)
	}
	return face, nil
}

// SetVariations applies a set of axis/value pairs, clamped to each
// axis's declared range. Axes the font doesn't have are ignored.
func (f *Face) SetVariations(variations []Variation) {
	f.shaper.SetVariations(variations)
}

// SetVariation applies a single axis/value pair.
func (f *Face) SetVariation(tag ot.Tag, value float32) {
	f.shaper.SetVariation(tag, value)
}

// SetNamedInstance applies the font's fvar named instance at index.
func (f *Face) SetNamedInstance(index int) {
	f.shaper.SetNamedInstance(index)
}

// UnitsPerEm returns the font's design units per em.
func (f *Face) UnitsPerEm() int16 {
	return f.face.Upem()
}
