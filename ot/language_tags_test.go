package ot

import "testing"

func TestLanguageToTag(t *testing.T) {
	cases := []struct {
		bcp47 string
		want  Tag
	}{
		{"en", MakeTag('E', 'N', 'G', ' ')},
		{"en-US", MakeTag('E', 'N', 'G', ' ')},
		{"fr", MakeTag('F', 'R', 'A', ' ')},
		{"zh-Hant", MakeTag('Z', 'H', 'T', ' ')},
		{"zh-Hans", MakeTag('Z', 'H', 'S', ' ')},
		{"zh-TW", MakeTag('Z', 'H', 'T', ' ')},
	}
	for _, c := range cases {
		tags := LanguageToTag(c.bcp47)
		if len(tags) == 0 || tags[0] != c.want {
			t.Errorf("LanguageToTag(%q) = %v, want first tag %v", c.bcp47, tags, c.want)
		}
	}
}

func TestLanguageToTagZhCandidateOrder(t *testing.T) {
	tags := LanguageToTag("zh")
	if len(tags) != 2 {
		t.Fatalf("expected 2 candidates for bare zh, got %v", tags)
	}
}

func TestLanguageToTagUnknown(t *testing.T) {
	tags := LanguageToTag("xx")
	if len(tags) != 1 {
		t.Fatalf("expected a deterministic fallback tag, got %v", tags)
	}
}

func TestLanguageToTagEmpty(t *testing.T) {
	if tags := LanguageToTag(""); tags != nil {
		t.Errorf("expected nil for empty input, got %v", tags)
	}
}
