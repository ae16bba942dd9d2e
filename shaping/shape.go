package shaping

import "github.com/inkstroke/shaping/ot"

// Feature is a single feature tag/value/range setting, e.g. {liga, 1,
// global} or {kern, 0, global} to force kerning off.
type Feature = ot.Feature

// FeatureFromString parses a feature string in the familiar
// "[+-]tag[=value][:start:end]" syntax (e.g. "-liga", "aalt=2").
func FeatureFromString(s string) (Feature, bool) { return ot.FeatureFromString(s) }

// Options configures a single Shape call. Zero-value Options uses the
// buffer's own direction/script/language and the face's default
// features.
type Options struct {
	Direction Direction
	Script    Tag
	Language  string
	Features  []Feature
}

// Shape runs the shaping pipeline: maps buf's codepoints to glyphs
// through face's tables, applies substitution and positioning
// lookups, and leaves the result in buf ready for OutputBuffer.
func Shape(face *Face, buf *UnicodeBuffer, opts *Options) OutputBuffer {
	if opts != nil {
		if opts.Direction != 0 {
			buf.SetDirection(opts.Direction)
		}
		if opts.Script != 0 {
			buf.SetScript(opts.Script)
		}
		if opts.Language != "" {
			buf.SetLanguage(opts.Language)
		}
	}

	var features []Feature
	if opts != nil {
		features = opts.Features
	}
	face.shaper.Shape(buf.inner, features)

	return OutputBuffer{inner: buf.inner}
}
