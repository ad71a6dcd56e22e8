package export

import (
	"strings"
	"time"

	"github.com/crfcave/cavereport/builder"
	"github.com/crfcave/cavereport/ir/semantic"
	"github.com/crfcave/cavereport/layout"
	"github.com/crfcave/cavereport/observability"
)

// PDFOptions carries the collaborators the PDF composer needs.
type PDFOptions struct {
	// Now stamps the "Generated:" header line. The zero value means
	// time.Now.
	Now time.Time
	// Images resolves photo references. Nil renders every photo as a
	// placeholder.
	Images layout.ImageLoader
	Logger observability.Logger
}

// RenderPDF composes the selected report sections into a paginated
// document: Visit Details, Use / Human Impact, Bio, then Photos. Bio
// and Photos are omitted entirely when they have no rows. A selection
// that enables nothing still yields a one-page document with header
// and footer.
func RenderPDF(p *Payload, sel Selection, opts PDFOptions) (*semantic.Document, error) {
	sel = sel.Normalize()
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	title := "CUMA Export – " + p.ReportName
	b := builder.NewBuilder()
	b.SetInfo(&semantic.DocumentInfo{
		Title:    title,
		Producer: "cavereport",
	})

	e := layout.NewEngine(b, layout.Config{
		Title:     title,
		Generated: now.Format(dateTimeFormat),
		Images:    opts.Images,
		Logger:    opts.Logger,
	})
	e.NewPage()

	if sel.Includes(SectionVisit) {
		e.SectionTitle("Visit Details")
		visit := p.Visit()
		e.KeyValueGrid([]layout.Pair{
			{Key: "Cave Name", Value: visit["caveName"]},
			{Key: "MSS #", Value: visit["mssAcc"]},
			{Key: "Owner", Value: visit["owner"]},
			{Key: "District or Unit", Value: visit["unit"]},
			{Key: "Monitor Date", Value: visit["monitorDate"]},
			{Key: "Organization", Value: visit["organization"]},
			{Key: "Monitored By", Value: visit["monitoredBy"]},
			{Key: "Area Monitored", Value: visit["areaMonitored"]},
			{Key: "Rationale", Value: visit["rationale"]},
			{Key: "Entrance Coordinates", Value: visit["location"]},
		})
	}

	if sel.Includes(SectionUse) {
		e.SectionTitle("Use / Human Impact")
		use := p.Use()
		e.KeyValueGrid([]layout.Pair{
			{Key: "Visitation", Value: use["visitation"]},
			{Key: "Litter", Value: use["litter"]},
			{Key: "Speleothem Vandalism", Value: use["speleothemVandalism"]},
			{Key: "Graffiti", Value: use["graffiti"]},
			{Key: "Archaeological Looting", Value: use["archaeologicalLooting"]},
			{Key: "Fires", Value: use["fires"]},
			{Key: "Camping", Value: use["camping"]},
			{Key: "Current Disturbance", Value: use["currentDisturbance"]},
			{Key: "Potential Disturbance", Value: use["potentialDisturbance"]},
		})

		longForm := []struct{ label, value string }{
			{"Management Considerations", use["manageConsiderations"]},
			{"Recommendations", use["recommendations"]},
			{"Other Comments", use["otherComments"]},
		}
		for _, f := range longForm {
			if strings.TrimSpace(f.value) != "" {
				e.LabeledParagraph(f.label, f.value)
			}
		}
	}

	if sel.Includes(SectionBio) && len(p.BioRows) > 0 {
		e.SectionTitle("Bio")
		rows := make([][]string, 0, len(p.BioRows))
		for _, r := range p.BioRows {
			rows = append(rows, []string{r["id"], r["speciesName"], r["count"], r["notes"]})
		}
		e.Table(
			[]string{"SpNum", "Species", "Count", "Notes"},
			rows,
			[]float64{0.6, 1.6, 0.6, 1.2},
			16,
		)
	}

	if sel.Includes(SectionPhotos) && len(p.PhotoRows) > 0 {
		e.SectionTitle("Photos")
		items := make([]layout.PhotoItem, 0, len(p.PhotoRows))
		for _, r := range p.PhotoRows {
			items = append(items, layout.PhotoItem{
				Ref:       r["uri"],
				Caption:   r["caption"],
				Timestamp: r["timestamp"],
			})
		}
		e.PhotoGrid(items)
	}

	e.FinishPage()
	return b.Build()
}
