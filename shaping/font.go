// Package shaping is the public API surface over this module's
// OpenType/TrueType shaping engine (package ot): load a font, build a
// buffer of Unicode text, shape it against a Face, and read back
// positioned glyphs. It adds no shaping logic of its own — every
// method here delegates straight to ot — it only gives the engine a
// small, stable, HarfBuzz-shaped vocabulary (Font/Face/UnicodeBuffer/
// shape/OutputBuffer) instead of requiring callers to reach into ot's
// internals.
package shaping

import "github.com/inkstroke/shaping/ot"

// Font is a parsed OpenType/TrueType font, immutable and safe to share
// across goroutines. Use Face to attach variation coordinates and
// shape text against it.
type Font struct {
	inner *ot.Font
}

// Load parses an OpenType/TrueType font file. For a TrueType
// Collection, it loads member 0; use LoadCollectionMember to select a
// different member.
func Load(data []byte) (Font, error) {
	return LoadCollectionMember(data, 0)
}

// LoadCollectionMember parses one member of a TrueType Collection (or
// a single font, for index 0).
func LoadCollectionMember(data []byte, index int) (Font, error) {
	f, err := ot.ParseFont(data, index)
	if err != nil {
		return Font{}, err
	}
	return Font{inner: f}, nil
}

// CollectionCount returns how many fonts data contains if it is a
// TrueType Collection, or 0 for a single font.
func CollectionCount(data []byte) int {
	return ot.CollectionCount(data)
}

// NumGlyphs returns the number of glyphs in the font.
func (f Font) NumGlyphs() int { return f.inner.NumGlyphs() }

// HasGlyph reports whether the font maps cp to a glyph via cmap.
func (f Font) HasGlyph(cp rune) bool { return f.inner.HasGlyph(ot.Codepoint(cp)) }
