package fonts

import "testing"

func TestByName(t *testing.T) {
	m, ok := ByName(HelveticaName)
	if !ok || m.Name != HelveticaName {
		t.Fatalf("Helvetica not resolved: %v %v", m, ok)
	}
	b, ok := ByName(HelveticaBoldName)
	if !ok || b.Name != HelveticaBoldName {
		t.Fatalf("Helvetica-Bold not resolved: %v %v", b, ok)
	}
	if _, ok := ByName("Courier"); ok {
		t.Fatalf("unexpected font resolved")
	}
}

func TestTextWidth(t *testing.T) {
	m := Helvetica()
	// 'i' is 222/1000 em, so at 10pt it is 2.22.
	if got := m.TextWidth("i", 10); got != 2.22 {
		t.Fatalf("width of i = %v", got)
	}
	// Width is additive per glyph.
	ab := m.TextWidth("a", 12) + m.TextWidth("b", 12)
	if got := m.TextWidth("ab", 12); got != ab {
		t.Fatalf("widths not additive: %v vs %v", got, ab)
	}
	// Bold is at least as wide for the same text.
	if Helvetica().TextWidth("Management", 12) >= HelveticaBold().TextWidth("Management", 12) {
		t.Fatalf("bold not wider than regular")
	}
}

func TestTextWidthDeterministic(t *testing.T) {
	m := HelveticaBold()
	s := "Crystal Cave 2024-02-11 — entrance survey…"
	if m.TextWidth(s, 12) != m.TextWidth(s, 12) {
		t.Fatalf("measurement not deterministic")
	}
}

func TestLineHeightAndAscent(t *testing.T) {
	m := Helvetica()
	if got := m.LineHeight(12); got != 11.1 {
		t.Fatalf("line height at 12pt = %v", got)
	}
	if got := m.Ascent(10); got != 7.18 {
		t.Fatalf("ascent at 10pt = %v", got)
	}
}

func TestEncode(t *testing.T) {
	got := Encode("a…b")
	want := []byte{'a', 0x85, 'b'}
	if string(got) != string(want) {
		t.Fatalf("encode = %x, want %x", got, want)
	}
	// Runes with no WinAnsi code become '?', never vanish.
	if string(Encode("漢")) != "?" {
		t.Fatalf("unmapped rune not replaced: %x", Encode("漢"))
	}
}
