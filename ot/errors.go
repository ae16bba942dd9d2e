package ot

import "errors"

// Sentinel errors returned by Font parsing. All of them reject the
// font outright: callers should treat any of these as "this font
// cannot be shaped", never retry with partial data.
var (
	ErrInvalidFont       = errors.New("ot: invalid font data")
	ErrTableNotFound     = errors.New("ot: table not found")
	ErrInvalidTable      = errors.New("ot: table data out of range")
	ErrUnknownTableFormat = errors.New("ot: unrecognized subtable format")
	ErrMissingRequiredTable = errors.New("ot: missing required table")
	// ErrInvalidOffset is returned by subtable parsers (Coverage,
	// ClassDef, lookup subtables) when an offset or count runs past
	// the end of the table's data.
	ErrInvalidOffset = errors.New("ot: offset out of range")
	// ErrInvalidFormat is returned when a subtable declares a format
	// number this package does not recognize.
	ErrInvalidFormat = errors.New("ot: unrecognized subtable format")
)

// Warning is a non-fatal condition raised while shaping. Warnings
// never abort a shape call; they document a degraded-but-defined
// fallback the pipeline already took.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w *Warning) Error() string { return w.Message }

// WarningKind classifies a Warning.
type WarningKind int

const (
	// WarnUnknownScript: the buffer's script tag had no dedicated
	// shaper; shaping proceeded using the Latin-style default shaper.
	WarnUnknownScript WarningKind = iota
	// WarnUnknownFeature: a requested feature tag has no lookups in
	// this font. Silently ignored - fonts may legitimately lack it.
	WarnUnknownFeature
	// WarnUnmappedCodepoint: a codepoint had no cmap entry; glyph 0
	// (.notdef) was substituted.
	WarnUnmappedCodepoint
	// WarnUnknownAxis: a variation axis tag was set on a Face that
	// the font does not declare in fvar; the value was ignored.
	WarnUnknownAxis
)
