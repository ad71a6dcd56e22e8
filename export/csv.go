package export

import (
	"time"

	"github.com/crfcave/cavereport/csvout"
)

// RenderCSV renders the payload in the schema the selection names. now
// feeds the use-monitoring sheet's "Date Entered" column.
func RenderCSV(p *Payload, sel Selection, now time.Time) string {
	sel = sel.Normalize()
	switch sel.Schema {
	case SchemaBio:
		return csvout.Bio(p.BioRows)
	case SchemaGeneric:
		return csvout.Generic(genericSections(p, sel))
	default:
		return csvout.UseMonitoring(p.Visit(), p.Use(), p.PhotoRows, now)
	}
}

// genericSections maps the selection onto labeled row groups in the
// same order the PDF composer uses.
func genericSections(p *Payload, sel Selection) []csvout.Section {
	var out []csvout.Section
	if sel.Includes(SectionVisit) {
		out = append(out, csvout.Section{Label: "Visit", KeyOrder: visitKeyOrder, Rows: p.VisitRows})
	}
	if sel.Includes(SectionUse) {
		out = append(out, csvout.Section{Label: "Use", KeyOrder: useKeyOrder, Rows: p.UseRows})
	}
	if sel.Includes(SectionBio) {
		out = append(out, csvout.Section{Label: "Bio", KeyOrder: bioKeyOrder, Rows: p.BioRows})
	}
	if sel.Includes(SectionPhotos) {
		out = append(out, csvout.Section{Label: "Photos", KeyOrder: photoKeyOrder, Rows: p.PhotoRows})
	}
	return out
}
