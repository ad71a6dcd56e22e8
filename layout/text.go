package layout

import "strings"

// WrapText splits text into lines that each fit within maxWidth using
// greedy word wrapping. Blank or whitespace-only input yields a single
// empty line. A word wider than maxWidth is placed on a line of its own
// rather than being split.
func WrapText(text string, st Style, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		cand := current + " " + w
		if st.TextWidth(cand) <= maxWidth {
			current = cand
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	return append(lines, current)
}

// EllipsizeToWidth truncates text so that the result plus a trailing
// ellipsis fits within maxWidth. Text that already fits is returned
// unchanged. At least one character is always kept.
func EllipsizeToWidth(text string, st Style, maxWidth float64) string {
	if st.TextWidth(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi) / 2
		if st.TextWidth(string(runes[:mid])+"…") <= maxWidth {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	keep := lo - 1
	if keep < 1 {
		keep = 1
	}
	return string(runes[:keep]) + "…"
}

// ParagraphHeight reports the height WrapText-flowed text consumes at
// the given width without drawing anything.
func ParagraphHeight(text string, st Style, width float64) float64 {
	return float64(len(WrapText(text, st, width))) * st.LineHeight()
}

// Paragraph draws text flowed between left and right starting at the
// given top offset and returns the height consumed. The caller is
// responsible for making sure the paragraph fits on the open page.
func (e *Engine) Paragraph(text string, left, top, right float64, st Style) float64 {
	lines := WrapText(text, st, right-left)
	lh := st.LineHeight()
	for i, line := range lines {
		e.baselineText(line, left, top+float64(i)*lh+st.Ascent(), st)
	}
	return float64(len(lines)) * lh
}

// FlowParagraph draws text flowed across the full content width at the
// cursor, paginating line by line so long values can span pages.
func (e *Engine) FlowParagraph(text string, st Style) {
	lines := WrapText(text, st, ContentWidth)
	lh := st.LineHeight()
	for _, line := range lines {
		e.EnsureSpace(lh)
		e.baselineText(line, Margin, e.y+st.Ascent(), st)
		e.y += lh
	}
}
