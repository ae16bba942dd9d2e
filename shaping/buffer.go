package shaping

import "github.com/inkstroke/shaping/ot"

// Tag is a 4-byte OpenType script/language/feature tag.
type Tag = ot.Tag

// Direction is the text flow direction of a buffer.
type Direction = ot.Direction

const (
	DirectionLTR = ot.DirectionLTR
	DirectionRTL = ot.DirectionRTL
	DirectionTTB = ot.DirectionTTB
	DirectionBTT = ot.DirectionBTT
)

// UnicodeBuffer holds input text (and its shaping-relevant
// properties) before a shape call, and the positioned glyph output
// after one.
type UnicodeBuffer struct {
	inner *ot.Buffer
}

// NewUnicodeBuffer creates an empty buffer.
func NewUnicodeBuffer() *UnicodeBuffer {
	return &UnicodeBuffer{inner: ot.NewBuffer()}
}

// AddStr appends text to the buffer. clusterStart is added to each
// rune's cluster index, letting callers shape a substring while
// keeping clusters relative to the original text.
func (b *UnicodeBuffer) AddStr(text string, clusterStart int) {
	start := len(b.inner.Info)
	b.inner.AddString(text)
	if clusterStart != 0 {
		for i := start; i < len(b.inner.Info); i++ {
			b.inner.Info[i].Cluster += clusterStart
		}
	}
}

// SetDirection sets the buffer's text direction.
func (b *UnicodeBuffer) SetDirection(dir Direction) { b.inner.SetDirection(dir) }

// SetScript sets the buffer's ISO 15924 script tag.
func (b *UnicodeBuffer) SetScript(script Tag) { b.inner.Script = script }

// SetLanguage sets the buffer's BCP-47 language, resolved to its
// OpenType LangSys candidates in priority order.
func (b *UnicodeBuffer) SetLanguage(bcp47 string) {
	tags := ot.LanguageToTag(bcp47)
	if len(tags) == 0 {
		return
	}
	b.inner.Language = tags[0]
	b.inner.LanguageCandidates = tags
}

// SetPreContext sets the text immediately preceding the buffer's
// content, used by context-sensitive substitutions at the start edge.
func (b *UnicodeBuffer) SetPreContext(text string) {
	b.inner.PreContext = stringToCodepoints(text)
}

// SetPostContext sets the text immediately following the buffer's
// content, used by context-sensitive substitutions at the end edge.
func (b *UnicodeBuffer) SetPostContext(text string) {
	b.inner.PostContext = stringToCodepoints(text)
}

// Clear removes all content and resets direction/script/language.
func (b *UnicodeBuffer) Clear() { b.inner.Reset() }

// Len returns the number of glyphs (or, before shaping, codepoints)
// currently in the buffer.
func (b *UnicodeBuffer) Len() int { return b.inner.Len() }

func stringToCodepoints(s string) []ot.Codepoint {
	runes := []rune(s)
	cps := make([]ot.Codepoint, len(runes))
	for i, r := range runes {
		cps[i] = ot.Codepoint(r)
	}
	return cps
}
