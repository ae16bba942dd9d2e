package ot

import "strings"

// bcp47ToOTTags maps common BCP-47 primary language subtags to their
// OpenType LangSys tags (OpenType spec, "Language System Tags"
// registry). A BCP-47 tag can resolve to more than one OT tag (e.g.
// Chinese locales), in priority order; callers try each candidate in
// turn against the font's LangSys list.
var bcp47ToOTTags = map[string][]Tag{
	"en": {MakeTag('E', 'N', 'G', ' ')},
	"fr": {MakeTag('F', 'R', 'A', ' ')},
	"de": {MakeTag('D', 'E', 'U', ' ')},
	"es": {MakeTag('E', 'S', 'P', ' ')},
	"it": {MakeTag('I', 'T', 'A', ' ')},
	"pt": {MakeTag('P', 'T', 'G', ' ')},
	"nl": {MakeTag('N', 'L', 'D', ' ')},
	"ru": {MakeTag('R', 'U', 'S', ' ')},
	"ar": {MakeTag('A', 'R', 'A', ' ')},
	"he": {MakeTag('I', 'W', 'R', ' ')},
	"hi": {MakeTag('H', 'I', 'N', ' ')},
	"ja": {MakeTag('J', 'A', 'N', ' ')},
	"ko": {MakeTag('K', 'O', 'R', ' ')},
	"th": {MakeTag('T', 'H', 'A', ' ')},
	"vi": {MakeTag('V', 'I', 'T', ' ')},
	"tr": {MakeTag('T', 'R', 'K', ' ')},
	"pl": {MakeTag('P', 'L', 'K', ' ')},
	"cs": {MakeTag('C', 'S', 'Y', ' ')},
	"el": {MakeTag('E', 'L', 'L', ' ')},
	"fa": {MakeTag('F', 'A', 'R', ' ')},
	"ur": {MakeTag('U', 'R', 'D', ' ')},
	"bn": {MakeTag('B', 'E', 'N', ' ')},
	"ta": {MakeTag('T', 'A', 'M', ' ')},
	"te": {MakeTag('T', 'E', 'L', ' ')},
	"kn": {MakeTag('K', 'A', 'N', ' ')},
	"ml": {MakeTag('M', 'L', 'R', ' ')},
	"gu": {MakeTag('G', 'U', 'J', ' ')},
	"pa": {MakeTag('P', 'A', 'N', ' ')},
	"or": {MakeTag('O', 'R', 'I', ' ')},
	"si": {MakeTag('S', 'N', 'H', ' ')},
	"my": {MakeTag('B', 'R', 'M', ' ')},
	"km": {MakeTag('K', 'H', 'M', ' ')},
	"lo": {MakeTag('L', 'A', 'O', ' ')},
	"am": {MakeTag('A', 'M', 'H', ' ')},
	"sw": {MakeTag('S', 'W', 'K', ' ')},
	"uk": {MakeTag('U', 'K', 'R', ' ')},
	"ro": {MakeTag('R', 'O', 'M', ' ')},
	"hu": {MakeTag('H', 'U', 'N', ' ')},
	"fi": {MakeTag('F', 'I', 'N', ' ')},
	"sv": {MakeTag('S', 'V', 'E', ' ')},
	"da": {MakeTag('D', 'A', 'N', ' ')},
	"no": {MakeTag('N', 'O', 'R', ' ')},
	"id": {MakeTag('I', 'N', 'D', ' ')},
	"ms": {MakeTag('M', 'L', 'Y', ' ')},
	"bg": {MakeTag('B', 'G', 'R', ' ')},
	"hr": {MakeTag('H', 'R', 'V', ' ')},
	"sr": {MakeTag('S', 'R', 'B', ' ')},
	"sk": {MakeTag('S', 'K', 'Y', ' ')},
	"zh": {MakeTag('Z', 'H', 'S', ' '), MakeTag('Z', 'H', 'T', ' ')},
}

// zhRegionTags resolves Chinese region/script subtags to their
// specific OT tag (preferred over the bare "zh" candidate list).
var zhRegionTags = map[string]Tag{
	"hans": MakeTag('Z', 'H', 'S', ' '),
	"cn":   MakeTag('Z', 'H', 'S', ' '),
	"sg":   MakeTag('Z', 'H', 'S', ' '),
	"hant": MakeTag('Z', 'H', 'T', ' '),
	"tw":   MakeTag('Z', 'H', 'T', ' '),
	"hk":   MakeTag('Z', 'H', 'H', ' '),
	"mo":   MakeTag('Z', 'H', 'T', ' '),
}

// LanguageToTag resolves a BCP-47 language tag (e.g. "en", "zh-Hant",
// "pt-BR") to one or more candidate OpenType LangSys tags, in priority
// order. Unrecognized primary subtags fall back to a tag built from
// the subtag itself, uppercased and space-padded to four bytes — not
// authoritative, but deterministic and good enough to miss cleanly
// (the shaper falls back to the script's default LangSys when none of
// the candidates match).
func LanguageToTag(bcp47 string) []Tag {
	bcp47 = strings.TrimSpace(bcp47)
	if bcp47 == "" {
		return nil
	}
	parts := strings.Split(bcp47, "-")
	primary := strings.ToLower(parts[0])

	if primary == "zh" {
		for _, sub := range parts[1:] {
			if tag, ok := zhRegionTags[strings.ToLower(sub)]; ok {
				rest := bcp47ToOTTags["zh"]
				tags := make([]Tag, 0, len(rest)+1)
				tags = append(tags, tag)
				for _, t := range rest {
					if t != tag {
						tags = append(tags, t)
					}
				}
				return tags
			}
		}
	}

	if tags, ok := bcp47ToOTTags[primary]; ok {
		out := make([]Tag, len(tags))
		copy(out, tags)
		return out
	}

	return []Tag{langTagFallback(primary)}
}

func langTagFallback(primary string) Tag {
	b := []byte("    ")
	for i := 0; i < len(primary) && i < 4; i++ {
		c := primary[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b[i] = c
	}
	return MakeTag(b[0], b[1], b[2], b[3])
}
