// Package fonts provides measurement for the non-embedded standard fonts
// the report renderer draws with. Widths are the Adobe core-font advance
// tables in 1/1000 em units; text is encoded as WinAnsi bytes.
package fonts

// Metrics holds the advance widths and vertical metrics of one core font.
type Metrics struct {
	Name      string
	Ascender  int // 1/1000 em, above the baseline
	Descender int // 1/1000 em, negative below the baseline
	widths    map[byte]int
}

// Names of the fonts this module registers on every page.
const (
	HelveticaName     = "Helvetica"
	HelveticaBoldName = "Helvetica-Bold"
)

var (
	helvetica     = &Metrics{Name: HelveticaName, Ascender: 718, Descender: -207, widths: helveticaWidths}
	helveticaBold = &Metrics{Name: HelveticaBoldName, Ascender: 718, Descender: -207, widths: helveticaBoldWidths}
)

// Helvetica returns the metrics of the regular face.
func Helvetica() *Metrics { return helvetica }

// HelveticaBold returns the metrics of the bold face.
func HelveticaBold() *Metrics { return helveticaBold }

// ByName resolves a base font name to its metrics.
func ByName(name string) (*Metrics, bool) {
	switch name {
	case HelveticaName:
		return helvetica, true
	case HelveticaBoldName:
		return helveticaBold, true
	}
	return nil, false
}

// TextWidth measures s at the given size in user-space units. Runes outside
// the WinAnsi set measure as '?', matching how they are encoded.
func (m *Metrics) TextWidth(s string, size float64) float64 {
	total := 0
	for _, r := range s {
		b := winAnsiByte(r)
		w, ok := m.widths[b]
		if !ok {
			w = 500
		}
		total += w
	}
	return float64(total) * size / 1000
}

// LineHeight is the natural line advance at size: ascender minus descender.
func (m *Metrics) LineHeight(size float64) float64 {
	return float64(m.Ascender-m.Descender) * size / 1000
}

// Ascent is the baseline offset from the top of a line at size.
func (m *Metrics) Ascent(size float64) float64 {
	return float64(m.Ascender) * size / 1000
}

// Encode converts s to WinAnsi bytes for a Tj operand. Unmapped runes
// become '?' so drawn text never silently disappears.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, winAnsiByte(r))
	}
	return out
}

// winAnsiByte maps a rune to its WinAnsi code. ASCII maps through; the
// punctuation the report payloads actually contain is handled explicitly.
func winAnsiByte(r rune) byte {
	if r >= 0x20 && r <= 0x7e {
		return byte(r)
	}
	if r >= 0xa0 && r <= 0xff {
		return byte(r)
	}
	switch r {
	case '…': // ellipsis
		return 0x85
	case '–': // en dash
		return 0x96
	case '—': // em dash
		return 0x97
	case '‘':
		return 0x91
	case '’':
		return 0x92
	case '“':
		return 0x93
	case '”':
		return 0x94
	case '•': // bullet
		return 0x95
	}
	return '?'
}
