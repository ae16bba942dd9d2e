package ot

import "testing"

func TestDecomposePrecomposed(t *testing.T) {
	base, mark, ok := Decompose(Codepoint('é'))
	if !ok {
		t.Fatalf("expected é to decompose")
	}
	if base != Codepoint('e') || mark != Codepoint(0x0301) {
		t.Errorf("got base=%U mark=%U, want base=%U mark=%U", base, mark, 'e', 0x0301)
	}
}

func TestDecomposeNoDecomposition(t *testing.T) {
	if _, _, ok := Decompose(Codepoint('a')); ok {
		t.Errorf("expected 'a' to have no canonical decomposition")
	}
}

func TestComposeRoundTrip(t *testing.T) {
	r, ok := Compose(Codepoint('e'), Codepoint(0x0301))
	if !ok || r != Codepoint('é') {
		t.Errorf("Compose(e, combining acute) = %U, %v; want %U, true", r, ok, 'é')
	}
}

func TestComposeNoComposition(t *testing.T) {
	if _, ok := Compose(Codepoint('a'), Codepoint('b')); ok {
		t.Errorf("expected 'a'+'b' to have no composition")
	}
}

func TestComposeZeroInput(t *testing.T) {
	if _, ok := Compose(0, Codepoint('a')); ok {
		t.Errorf("expected zero codepoint input to report no composition")
	}
}
