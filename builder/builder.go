// Package builder provides a fluent API for PDF page construction. Pages
// accumulate typed content-stream operations; the writer package turns the
// finished document into bytes.
package builder

import (
	"fmt"

	"github.com/crfcave/cavereport/fonts"
	"github.com/crfcave/cavereport/ir/semantic"
)

// PDFBuilder assembles a document page by page.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	// MeasureText returns the width of text at size in the named standard
	// font, in user-space units.
	MeasureText(text string, size float64, font string) float64
	Build() (*semantic.Document, error)
}

// PageBuilder draws onto a single page.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	DrawImage(img *semantic.Image, x, y, width, height float64) PageBuilder
	Finish() PDFBuilder
}

// TextOptions configures text drawing. Font is a standard base font name;
// unknown names fall back to Helvetica.
type TextOptions struct {
	Font     string
	FontSize float64
	Color    Color
}

// RectOptions configures rectangle drawing (defaults to stroke if neither
// fill nor stroke is set).
type RectOptions struct {
	StrokeColor Color
	FillColor   Color
	LineWidth   float64
	Fill        bool
	Stroke      bool
}

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
}

// Color represents an RGB color with components in [0,1]. The zero value is
// black.
type Color struct {
	R, G, B float64
	set     bool
}

// RGB builds a color from 0-255 components.
func RGB(r, g, b int) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, set: true}
}

// Gray builds an achromatic color from one 0-255 component.
func Gray(v int) Color { return RGB(v, v, v) }

func isZeroColor(c Color) bool { return !c.set && c.R == 0 && c.G == 0 && c.B == 0 }

type builderImpl struct {
	pages        []*semantic.Page
	info         *semantic.DocumentInfo
	xobjectCount int
	xobjectNames map[*semantic.Image]string
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

// Resource names for the two faces registered on every page.
const (
	regularFontResource = "F1"
	boldFontResource    = "F2"
)

// NewBuilder constructs a PDFBuilder.
func NewBuilder() PDFBuilder { return &builderImpl{} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{MediaBox: semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h}}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

func (b *builderImpl) MeasureText(text string, size float64, font string) float64 {
	m, ok := fonts.ByName(font)
	if !ok {
		m = fonts.Helvetica()
	}
	return m.TextWidth(text, size)
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{Pages: b.pages, Info: b.info}, nil
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	ops := p.ensureContentOps()
	fontName, resName := resolveFont(opts.Font)
	p.registerFont(resName, fontName)

	size := opts.FontSize
	if size <= 0 {
		size = 12
	}
	*ops = append(*ops, semantic.Operation{Operator: "BT"})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tf",
		Operands: []semantic.Operand{semantic.NameOperand{Value: resName}, semantic.NumberOperand{Value: size}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tm",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
		},
	})
	if !isZeroColor(opts.Color) {
		*ops = append(*ops, colorOp("rg", opts.Color))
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "Tj",
		Operands: []semantic.Operand{semantic.StringOperand{Value: fonts.Encode(text)}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "ET"})
	if !isZeroColor(opts.Color) {
		// Restore fill color so later default-black text is unaffected.
		*ops = append(*ops, colorOp("rg", Color{set: true}))
	}
	return p
}

func (p *pageBuilderImpl) DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder {
	po := opts
	if !po.Stroke && !po.Fill {
		po.Stroke = true
	}
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	applyPathState(ops, po)
	*ops = append(*ops, semantic.Operation{
		Operator: "re",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
			semantic.NumberOperand{Value: width},
			semantic.NumberOperand{Value: height},
		},
	})
	*ops = append(*ops, semantic.Operation{Operator: paintOperator(po.Fill, po.Stroke)})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	applyPathState(ops, RectOptions{StrokeColor: opts.StrokeColor, LineWidth: opts.LineWidth, Stroke: true})
	*ops = append(*ops, semantic.Operation{
		Operator: "m",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x1}, semantic.NumberOperand{Value: y1}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "l",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x2}, semantic.NumberOperand{Value: y2}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "S"})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawImage(img *semantic.Image, x, y, width, height float64) PageBuilder {
	if img == nil {
		return p
	}
	res := p.ensureResources()
	name := p.parent.imageName(img)
	if _, exists := res.XObjects[name]; !exists {
		xobj := *img
		xobj.Subtype = "Image"
		res.XObjects[name] = xobj
	}
	w := width
	if w == 0 {
		w = float64(img.Width)
	}
	h := height
	if h == 0 {
		h = float64(img.Height)
	}

	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	*ops = append(*ops, semantic.Operation{
		Operator: "cm",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: w},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: h},
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
		},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Do",
		Operands: []semantic.Operand{semantic.NameOperand{Value: name}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) Finish() PDFBuilder { return p.parent }

func resolveFont(name string) (baseFont, resource string) {
	if name == fonts.HelveticaBoldName {
		return fonts.HelveticaBoldName, boldFontResource
	}
	return fonts.HelveticaName, regularFontResource
}

func (p *pageBuilderImpl) registerFont(resName, baseFont string) {
	res := p.ensureResources()
	if _, ok := res.Fonts[resName]; !ok {
		res.Fonts[resName] = &semantic.Font{
			Subtype:  "Type1",
			BaseFont: baseFont,
			Encoding: "WinAnsiEncoding",
		}
	}
}

func (b *builderImpl) imageName(img *semantic.Image) string {
	if b.xobjectNames == nil {
		b.xobjectNames = make(map[*semantic.Image]string)
	}
	if name, ok := b.xobjectNames[img]; ok {
		return name
	}
	b.xobjectCount++
	name := fmt.Sprintf("Im%d", b.xobjectCount)
	b.xobjectNames[img] = name
	return name
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	if p.page.Resources.XObjects == nil {
		p.page.Resources.XObjects = make(map[string]semantic.XObject)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func colorOp(op string, c Color) semantic.Operation {
	return semantic.Operation{
		Operator: op,
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: c.R},
			semantic.NumberOperand{Value: c.G},
			semantic.NumberOperand{Value: c.B},
		},
	}
}

func applyPathState(ops *[]semantic.Operation, opts RectOptions) {
	if opts.Fill && !isZeroColor(opts.FillColor) {
		*ops = append(*ops, colorOp("rg", opts.FillColor))
	}
	if opts.Stroke {
		if !isZeroColor(opts.StrokeColor) {
			*ops = append(*ops, colorOp("RG", opts.StrokeColor))
		}
		if opts.LineWidth > 0 {
			*ops = append(*ops, semantic.Operation{Operator: "w", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.LineWidth}}})
		}
	}
}

func paintOperator(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "B"
	case fill:
		return "f"
	default:
		return "S"
	}
}
