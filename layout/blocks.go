package layout

import (
	"strings"

	"github.com/crfcave/cavereport/builder"
	"github.com/crfcave/cavereport/ir/semantic"
	"github.com/crfcave/cavereport/observability"
)

// Pair is one key/value entry in a two-column grid.
type Pair struct {
	Key   string
	Value string
}

// PhotoItem is one cell of a photo grid.
type PhotoItem struct {
	Ref       string
	Caption   string
	Timestamp string
}

// maxKeyLabel is the widest key the visit grid renders. It caps the key
// column so values keep a predictable share of each column.
const maxKeyLabel = "Management Considerations:"

// SectionTitle draws a ruled section header. The whole block is kept on
// one page.
func (e *Engine) SectionTitle(title string) {
	titleLH := HeadingStyle.LineHeight()
	const (
		topSpacing        = 12.0
		betweenSpacing    = 6.0
		bottomSpacing     = 8.0
		afterBlockSpacing = 12.0
	)
	needed := topSpacing + 1 + betweenSpacing + titleLH + bottomSpacing + 1 + afterBlockSpacing
	e.EnsureSpace(needed)

	e.y += topSpacing
	e.hline(Margin, Margin+ContentWidth, e.y, ruleColor, 2)
	e.y += betweenSpacing
	e.baselineText(title, Margin, e.y+HeadingStyle.Ascent(), HeadingStyle)
	e.y += titleLH + bottomSpacing
	e.hline(Margin, Margin+ContentWidth, e.y, ruleColor, 2)
	e.y += afterBlockSpacing
}

// KeyValueGrid lays pairs out two per row. Keys render bold in a capped
// key column, values wrap in the remainder of the column, and each row
// advances by the tallest of its cells. Rows never split across pages.
func (e *Engine) KeyValueGrid(pairs []Pair) {
	colW := ContentWidth / 2
	keyLabelW := BoldStyle.TextWidth(maxKeyLabel) + 8
	if limit := colW * 0.55; keyLabelW > limit {
		keyLabelW = limit
	}

	for idx := 0; idx < len(pairs); idx += 2 {
		row := pairs[idx:]
		if len(row) > 2 {
			row = row[:2]
		}

		rowMax := 0.0
		for _, p := range row {
			keyH := ParagraphHeight(p.Key+":", BoldStyle, keyLabelW)
			valueH := ParagraphHeight(p.Value, BodyStyle, colW-keyLabelW-6)
			if keyH > rowMax {
				rowMax = keyH
			}
			if valueH > rowMax {
				rowMax = valueH
			}
		}
		e.EnsureSpace(rowMax + 6)

		for col, p := range row {
			xLeft := Margin + float64(col)*colW
			e.Paragraph(p.Key+":", xLeft, e.y, xLeft+keyLabelW, BoldStyle)
			e.Paragraph(p.Value, xLeft+keyLabelW+6, e.y, xLeft+colW, BodyStyle)
		}
		e.y += rowMax + 6
	}
	e.y += 6
}

// LabeledParagraph draws a bold label line followed by the value flowed
// across the full content width. The label is never stranded alone at
// the bottom of a page.
func (e *Engine) LabeledParagraph(label, value string) {
	labelLH := BoldStyle.LineHeight()
	e.EnsureSpace(labelLH + 2 + BodyStyle.LineHeight())

	e.baselineText(label, Margin, e.y+BoldStyle.Ascent(), BoldStyle)
	e.y += labelLH + 2
	e.FlowParagraph(value, BodyStyle)
	e.y += 10
}

// Table draws a weighted-column table with a shaded header row. Cell
// text is flattened to one logical line, capped at 300 characters, then
// wrapped within the cell. A data row is always drawn whole on one page;
// the header is not repeated after a page break.
func (e *Engine) Table(headers []string, rows [][]string, weights []float64, lineHeight float64) {
	if len(headers) == 0 {
		return
	}
	if lineHeight <= 0 {
		lineHeight = 16
	}
	weightSum := 0.0
	for _, w := range weights {
		weightSum += w
	}
	colWidths := make([]float64, len(headers))
	for i := range headers {
		colWidths[i] = ContentWidth * (weights[i] / weightSum)
	}

	e.EnsureSpace(24)
	x := Margin
	headerTop := e.y
	for i, h := range headers {
		cw := colWidths[i]
		e.rect(x, headerTop, cw, 20, builder.RectOptions{
			FillColor: tableHeaderBg,
			Fill:      true,
		})
		e.rect(x, headerTop, cw, 20, builder.RectOptions{
			StrokeColor: borderColor,
			LineWidth:   1,
			Stroke:      true,
		})
		e.baselineText(h, x+6, headerTop+14, BoldStyle)
		x += cw
	}
	e.y = headerTop + 20

	for _, row := range rows {
		wrapped := make([][]string, len(row))
		maxLines := 1
		for i, cell := range row {
			lines := WrapText(flattenCell(cell), BodyStyle, colWidths[i]-8)
			wrapped[i] = lines
			if len(lines) > maxLines {
				maxLines = len(lines)
			}
		}

		rowNeeded := lineHeight*float64(maxLines) + 6
		e.EnsureSpace(rowNeeded)

		x = Margin
		top := e.y
		for i := range row {
			cw := colWidths[i]
			e.rect(x, top, cw, rowNeeded, builder.RectOptions{
				StrokeColor: borderColor,
				LineWidth:   1,
				Stroke:      true,
			})
			localY := top + lineHeight
			for _, ln := range wrapped[i] {
				e.baselineText(ln, x+4, localY, BodyStyle)
				localY += lineHeight
			}
			x += cw
		}
		e.y = top + rowNeeded
	}
	e.y += 8
}

// flattenCell collapses newlines and caps cell text at 300 characters so
// pathological values cannot blow up a row.
func flattenCell(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", " ")
	runes := []rune(s)
	if len(runes) > 300 {
		return string(runes[:300])
	}
	return s
}

// PhotoGrid lays photos out two per row with an ellipsized caption and a
// timestamp under each image. Photos whose reference cannot be decoded
// render as a bordered placeholder. Each row of two is kept on one page.
func (e *Engine) PhotoGrid(items []PhotoItem) {
	if len(items) == 0 {
		return
	}
	const (
		cols = 2
		gap  = 10.0
		imgH = 170.0
		capH = 34.0
	)
	cellW := (ContentWidth - gap) / cols
	cellH := imgH + capH

	lastTop := 0.0
	for i, item := range items {
		col := i % cols
		if col == 0 {
			e.EnsureSpace(cellH + 8)
		}
		x := Margin + float64(col)*(cellW+gap)
		top := e.y
		lastTop = top

		var img *semantic.Image
		if e.cfg.Images != nil {
			loaded, err := e.cfg.Images.Load(item.Ref, int(cellW), int(imgH))
			if err != nil {
				e.log.Warn("photo decode failed",
					observability.String("ref", item.Ref),
					observability.Error("error", err))
			} else {
				img = loaded
			}
		}

		if img != nil {
			e.image(img, x, top, cellW, imgH)
		} else {
			e.rect(x, top, cellW, imgH, builder.RectOptions{
				StrokeColor: borderColor,
				LineWidth:   1,
				Stroke:      true,
			})
			e.baselineText("Image unavailable", x+8, top+imgH/2, SmallStyle)
		}

		caption := item.Caption
		if strings.TrimSpace(caption) == "" {
			caption = "(no caption)"
		}
		cy := top + imgH + 14
		e.baselineText(EllipsizeToWidth(caption, BodyStyle, cellW-6), x+3, cy, BodyStyle)
		e.baselineText(item.Timestamp, x+3, cy+14, SmallStyle)

		if col == cols-1 {
			e.y = top + cellH + 8
		}
	}
	if len(items)%cols != 0 {
		e.y = lastTop + cellH + 8
	}
}
