package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crfcave/cavereport/ir/semantic"
)

type fakeStore struct {
	report  *Report
	species []SpeciesCount
	photos  []Photo
}

func (f *fakeStore) GetReport(_ context.Context, id int64) (*Report, error) {
	if f.report == nil || f.report.ID != id {
		return nil, ErrNotFound
	}
	return f.report, nil
}

func (f *fakeStore) SpeciesForReport(_ context.Context, _ int64) ([]SpeciesCount, error) {
	return f.species, nil
}

func (f *fakeStore) PhotosForReport(_ context.Context, _ int64) ([]Photo, error) {
	return f.photos, nil
}

func speciesID(v int64) *int64 { return &v }

func testStore() *fakeStore {
	return &fakeStore{
		report: &Report{
			ID:                   7,
			MSSAcc:               "MSS-042",
			CaveName:             "Crystal Cave",
			Owner:                "State Parks",
			Unit:                 "Ozark District",
			MonitorDate:          time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
			Rationale:            "Annual survey",
			AreaMonitored:        "Entrance to first junction",
			Organization:         "CRF",
			MonitoredBy:          "B. Jones",
			Visitation:           "moderate",
			Litter:               "true",
			SpeleothemVandalism:  "no",
			Graffiti:             "0",
			Fires:                "y",
			Camping:              "false",
			CurrentDisturbance:   "some trampling",
			PotentialDisturbance: "high traffic in spring",
			ManageConsiderations: "gate the entrance",
			Recommendations:      "quarterly visits",
			OtherComments:        "water level normal",
			Location:             "37.1234 -91.5678",
		},
		species: []SpeciesCount{
			{ID: 1, ReportID: 7, SpeciesID: speciesID(17), SpeciesName: "Myotis grisescens", Count: 250, Notes: "hibernaculum"},
			{ID: 2, ReportID: 7, SpeciesID: nil, SpeciesName: "Eurycea lucifuga", Count: 4, Notes: ""},
		},
		photos: []Photo{
			{ID: 1, ReportID: 7, URI: "file:///photos/entrance.jpg", Caption: "Entrance pool",
				Timestamp: time.Date(2024, 4, 30, 14, 2, 0, 0, time.UTC)},
		},
	}
}

func TestSelection_NormalizeAndIncludes(t *testing.T) {
	sel := Selection{}.Normalize()
	require.Equal(t, []Section{SectionAll}, sel.Sections)
	for _, sec := range []Section{SectionVisit, SectionBio, SectionPhotos, SectionUse} {
		assert.True(t, sel.Includes(sec), "ALL must include %s", sec)
	}

	only := Selection{Sections: []Section{SectionBio}}
	assert.True(t, only.Includes(SectionBio))
	assert.False(t, only.Includes(SectionVisit))
}

func TestBuildPayload(t *testing.T) {
	p, err := BuildPayload(context.Background(), testStore(), 7, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.ReportID)
	assert.Equal(t, "Crystal Cave 2024-04-30", p.ReportName)

	visit := p.Visit()
	assert.Equal(t, "2024-04-30", visit["monitorDate"])
	assert.Equal(t, "State Parks", visit["owner"])
	assert.Equal(t, "Ozark District", visit["unit"])

	use := p.Use()
	assert.Equal(t, "quarterly visits", use["recommendations"])

	require.Len(t, p.BioRows, 2)
	assert.Equal(t, "17", p.BioRows[0]["id"])
	assert.Equal(t, "250", p.BioRows[0]["count"])
	assert.Equal(t, "", p.BioRows[1]["id"], "nil species id maps to empty")

	require.Len(t, p.PhotoRows, 1)
	assert.Equal(t, "2024-04-30 14:02", p.PhotoRows[0]["timestamp"])
}

func TestBuildPayload_NotFound(t *testing.T) {
	_, err := BuildPayload(context.Background(), testStore(), 999, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderCSV_SchemaDispatch(t *testing.T) {
	p, err := BuildPayload(context.Background(), testStore(), 7, nil)
	require.NoError(t, err)
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	use := RenderCSV(p, Selection{Schema: SchemaUseMonitoring}, now)
	assert.True(t, strings.HasPrefix(use, "Accession #,"))
	assert.Contains(t, use, "05/01/2024")

	bio := RenderCSV(p, Selection{Schema: SchemaBio}, now)
	assert.True(t, strings.HasPrefix(bio, "SpNum,Common Name,"))
	assert.Contains(t, bio, "Myotis grisescens")

	generic := RenderCSV(p, Selection{Schema: SchemaGeneric}, now)
	assert.Contains(t, generic, "# Visit\n")
	assert.Contains(t, generic, "# Use\n")
	assert.Contains(t, generic, "# Bio\n")
	assert.Contains(t, generic, "# Photos\n")
}

func TestRenderCSV_GenericHonorsSections(t *testing.T) {
	p, err := BuildPayload(context.Background(), testStore(), 7, nil)
	require.NoError(t, err)

	out := RenderCSV(p, Selection{
		Sections: []Section{SectionBio},
		Schema:   SchemaGeneric,
	}, time.Now())
	assert.Contains(t, out, "# Bio\n")
	assert.NotContains(t, out, "# Visit")
	assert.NotContains(t, out, "# Photos")
}

// docText flattens every text-showing operand of a document into one
// string. Fixtures stay ASCII so the encoding round-trips.
func docText(d *semantic.Document) string {
	var sb strings.Builder
	for _, p := range d.Pages {
		for _, cs := range p.Contents {
			for _, op := range cs.Operations {
				if op.Operator != "Tj" {
					continue
				}
				for _, operand := range op.Operands {
					if s, ok := operand.(semantic.StringOperand); ok {
						sb.Write(s.Value)
						sb.WriteByte('\n')
					}
				}
			}
		}
	}
	return sb.String()
}

func TestRenderPDF_AllSections(t *testing.T) {
	p, err := BuildPayload(context.Background(), testStore(), 7, nil)
	require.NoError(t, err)

	doc, err := RenderPDF(p, Selection{}, PDFOptions{
		Now: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, doc.Pages)

	text := docText(doc)
	assert.Contains(t, text, "Visit Details")
	assert.Contains(t, text, "Use / Human Impact")
	assert.Contains(t, text, "Bio")
	assert.Contains(t, text, "Photos")
	assert.Contains(t, text, "Crystal Cave")
	assert.Contains(t, text, "Myotis grisescens")
	assert.Contains(t, text, "Generated: 2024-05-01 10:30")
	assert.Contains(t, text, "Page 1")
	// No loader was supplied, so the photo renders as a placeholder.
	assert.Contains(t, text, "Image unavailable")

	require.NotNil(t, doc.Info)
	assert.Contains(t, doc.Info.Title, "Crystal Cave 2024-04-30")
}

func TestRenderPDF_SectionGatingAndEmptyOmission(t *testing.T) {
	p, err := BuildPayload(context.Background(), testStore(), 7, nil)
	require.NoError(t, err)

	doc, err := RenderPDF(p, Selection{Sections: []Section{SectionVisit}}, PDFOptions{})
	require.NoError(t, err)
	text := docText(doc)
	assert.Contains(t, text, "Visit Details")
	assert.NotContains(t, text, "Use / Human Impact")
	assert.NotContains(t, text, "Photos")

	// Empty bio and photo sections vanish even when selected.
	p.BioRows = nil
	p.PhotoRows = nil
	doc, err = RenderPDF(p, Selection{Sections: []Section{SectionBio, SectionPhotos}}, PDFOptions{})
	require.NoError(t, err)
	text = docText(doc)
	assert.NotContains(t, text, "Bio")
	assert.NotContains(t, text, "Photos")
	assert.Len(t, doc.Pages, 1, "empty selection still yields one page")
	assert.Contains(t, text, "Page 1")
}

func TestRenderPDF_SkipsBlankLongFormFields(t *testing.T) {
	st := testStore()
	st.report.ManageConsiderations = "   "
	st.report.Recommendations = ""
	p, err := BuildPayload(context.Background(), st, 7, nil)
	require.NoError(t, err)

	doc, err := RenderPDF(p, Selection{Sections: []Section{SectionUse}}, PDFOptions{})
	require.NoError(t, err)
	text := docText(doc)
	assert.NotContains(t, text, "Management Considerations")
	assert.NotContains(t, text, "Recommendations")
	assert.Contains(t, text, "Other Comments")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Crystal Cave 2024-04-30-UseMonitoring.csv",
		FileName("Crystal Cave 2024-04-30", FormatCSVUseMonitoring))
	assert.Equal(t, "Crystal Cave 2024-04-30-BioMonitoring.csv",
		FileName("Crystal Cave 2024-04-30", FormatCSVBioMonitoring))
	assert.Equal(t, "Crystal Cave 2024-04-30-Report.pdf",
		FileName("Crystal Cave 2024-04-30", FormatPDF))
	assert.Equal(t, "report-Report.pdf", FileName("   ", FormatPDF))
}

func TestExporter_ExportCSV(t *testing.T) {
	dir := t.TempDir()
	ex := &Exporter{
		Store: testStore(),
		Clock: func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) },
	}

	path, err := ex.Export(context.Background(), 7, Selection{Format: FormatCSVUseMonitoring}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Crystal Cave 2024-04-30-UseMonitoring.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Accession #,"))
	assert.Contains(t, string(data), "Crystal Cave")

	assertNoTempFiles(t, dir)
}

func TestExporter_BioFormatSelectsBioSchema(t *testing.T) {
	dir := t.TempDir()
	ex := &Exporter{Store: testStore()}

	path, err := ex.Export(context.Background(), 7, Selection{Format: FormatCSVBioMonitoring}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "SpNum,Common Name,"))
}

func TestExporter_ExportPDF(t *testing.T) {
	dir := t.TempDir()
	ex := &Exporter{Store: testStore()}

	path, err := ex.Export(context.Background(), 7, Selection{Format: FormatPDF}, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "-Report.pdf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-1.7"))
	assert.True(t, strings.HasSuffix(strings.TrimRight(string(data), "\n"), "%%EOF"))

	assertNoTempFiles(t, dir)
}

func TestExporter_NotFound(t *testing.T) {
	ex := &Exporter{Store: testStore()}
	_, err := ex.Export(context.Background(), 999, Selection{Format: FormatPDF}, t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}
