// Package layout paginates report content onto US-Letter pages.
//
// The engine keeps a top-down cursor in points. Callers append blocks
// (section titles, key/value grids, tables, photo grids) and the engine
// opens and finishes pages as needed, drawing the report header on every
// new page and the page-number footer when a page closes. Coordinates are
// converted to the PDF bottom-up system only at draw time.
package layout

import (
	"fmt"

	"github.com/crfcave/cavereport/builder"
	"github.com/crfcave/cavereport/fonts"
	"github.com/crfcave/cavereport/ir/semantic"
	"github.com/crfcave/cavereport/observability"
)

const (
	PageWidth  = 612.0
	PageHeight = 792.0
	Margin     = 36.0

	// ContentWidth is the usable width between the side margins.
	ContentWidth = PageWidth - 2*Margin

	// footerReserve keeps the bottom of the content area clear of the
	// page-number footer.
	footerReserve = 24.0
)

// Style pairs a core font with a size and fill color.
type Style struct {
	Font  *fonts.Metrics
	Size  float64
	Color builder.Color
}

func (s Style) TextWidth(text string) float64 { return s.Font.TextWidth(text, s.Size) }
func (s Style) LineHeight() float64           { return s.Font.LineHeight(s.Size) }
func (s Style) Ascent() float64               { return s.Font.Ascent(s.Size) }

var (
	TitleStyle   = Style{Font: fonts.HelveticaBold(), Size: 18, Color: builder.Gray(0)}
	HeadingStyle = Style{Font: fonts.HelveticaBold(), Size: 16, Color: builder.Gray(0)}
	BodyStyle    = Style{Font: fonts.Helvetica(), Size: 12, Color: builder.Gray(0)}
	BoldStyle    = Style{Font: fonts.HelveticaBold(), Size: 12, Color: builder.Gray(0)}
	SmallStyle   = Style{Font: fonts.Helvetica(), Size: 10, Color: builder.Gray(68)}

	ruleColor     = builder.Gray(204)
	borderColor   = builder.Gray(204)
	tableHeaderBg = builder.RGB(240, 240, 240)
)

// ImageLoader resolves a photo reference to a decoded image scaled to
// roughly fit the given cell size.
type ImageLoader interface {
	Load(ref string, targetW, targetH int) (*semantic.Image, error)
}

// Config carries per-document parameters for an Engine.
type Config struct {
	// Title is drawn at the top of every page.
	Title string
	// Generated is the preformatted creation timestamp shown under the
	// title.
	Generated string
	// Images resolves photo references for PhotoGrid. Nil means every
	// photo renders as a placeholder.
	Images ImageLoader
	// Logger receives decode failures and pagination events. Nil means
	// no logging.
	Logger observability.Logger
}

// Engine lays report blocks onto pages of a PDFBuilder document.
type Engine struct {
	b   builder.PDFBuilder
	cfg Config
	log observability.Logger

	page    builder.PageBuilder
	pageNum int
	y       float64
}

func NewEngine(b builder.PDFBuilder, cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Engine{b: b, cfg: cfg, log: log}
}

// PageCount reports how many pages have been opened so far.
func (e *Engine) PageCount() int { return e.pageNum }

// NewPage finishes any open page, opens the next one, and draws the
// report header. The cursor ends just below the header rule.
func (e *Engine) NewPage() {
	if e.page != nil {
		e.FinishPage()
	}
	e.pageNum++
	e.page = e.b.NewPage(PageWidth, PageHeight)
	e.y = Margin
	e.baselineText(e.cfg.Title, Margin, e.y, TitleStyle)
	e.y += 22
	e.baselineText("Generated: "+e.cfg.Generated, Margin, e.y, SmallStyle)
	e.y += 8
	e.hline(Margin, PageWidth-Margin, e.y, ruleColor, 2)
	e.y += 16
	e.log.Debug("page opened", observability.Int("page", e.pageNum))
}

// FinishPage draws the page-number footer and closes the open page.
// Calling it with no open page is a no-op.
func (e *Engine) FinishPage() {
	if e.page == nil {
		return
	}
	e.baselineText(fmt.Sprintf("Page %d", e.pageNum), PageWidth-Margin-60, PageHeight-16, SmallStyle)
	e.page.Finish()
	e.page = nil
}

// EnsureSpace guarantees at least needed points of content height remain
// above the footer reserve, starting a new page when they do not. The
// value passed must be an upper bound of what the caller draws next.
func (e *Engine) EnsureSpace(needed float64) {
	if e.page == nil {
		e.NewPage()
		return
	}
	if e.y+needed > PageHeight-Margin-footerReserve {
		e.NewPage()
	}
}

// baselineText draws a single line with its baseline at the given
// top-down y offset.
func (e *Engine) baselineText(text string, x, baseline float64, st Style) {
	e.page.DrawText(text, x, PageHeight-baseline, builder.TextOptions{
		Font:     st.Font.Name,
		FontSize: st.Size,
		Color:    st.Color,
	})
}

// hline draws a horizontal rule at the given top-down y offset.
func (e *Engine) hline(x1, x2, top float64, color builder.Color, width float64) {
	e.page.DrawLine(x1, PageHeight-top, x2, PageHeight-top, builder.LineOptions{
		StrokeColor: color,
		LineWidth:   width,
	})
}

// rect draws a rectangle whose top-left corner sits at (x, top) in
// top-down coordinates.
func (e *Engine) rect(x, top, w, h float64, opts builder.RectOptions) {
	e.page.DrawRectangle(x, PageHeight-top-h, w, h, opts)
}

func (e *Engine) image(img *semantic.Image, x, top, w, h float64) {
	e.page.DrawImage(img, x, PageHeight-top-h, w, h)
}
