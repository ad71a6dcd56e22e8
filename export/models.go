// Package export assembles cave monitoring reports into the row-map
// payload shape and renders it as CSV or a paginated PDF.
package export

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a report id does not resolve.
var ErrNotFound = errors.New("export: report not found")

// Section tags select which parts of a report render.
type Section string

const (
	SectionAll    Section = "ALL"
	SectionVisit  Section = "VISIT"
	SectionBio    Section = "BIO"
	SectionPhotos Section = "PHOTOS"
	SectionUse    Section = "USE"
)

// Format selects the output file type.
type Format int

const (
	FormatCSVUseMonitoring Format = iota
	FormatCSVBioMonitoring
	FormatPDF
)

// CSVSchema selects which CSV renderer a CSV export uses.
type CSVSchema int

const (
	SchemaUseMonitoring CSVSchema = iota
	SchemaBio
	SchemaGeneric
)

// Selection is the rendering configuration for one export request.
type Selection struct {
	Sections []Section
	Format   Format
	Schema   CSVSchema
}

// Normalize returns a selection whose section set is never empty; an
// empty set falls back to {ALL}.
func (s Selection) Normalize() Selection {
	if len(s.Sections) == 0 {
		s.Sections = []Section{SectionAll}
	}
	return s
}

// Includes reports whether a section should render under this
// selection. ALL covers every section.
func (s Selection) Includes(sec Section) bool {
	for _, have := range s.Sections {
		if have == SectionAll || have == sec {
			return true
		}
	}
	return false
}

// Report is the visit record as stored, one row per monitoring visit.
type Report struct {
	ID                    int64
	MSSAcc                string
	CaveName              string
	Owner                 string
	Unit                  string
	MonitorDate           time.Time
	Rationale             string
	AreaMonitored         string
	Organization          string
	MonitoredBy           string
	Visitation            string
	Litter                string
	SpeleothemVandalism   string
	Graffiti              string
	ArchaeologicalLooting string
	Fires                 string
	Camping               string
	CurrentDisturbance    string
	PotentialDisturbance  string
	ManageConsiderations  string
	Recommendations       string
	OtherComments         string
	Location              string
}

// SpeciesCount is one observed-species row of a report.
type SpeciesCount struct {
	ID          int64
	ReportID    int64
	SpeciesID   *int64
	SpeciesName string
	Count       int
	Notes       string
}

// Photo is one photo attachment of a report.
type Photo struct {
	ID        int64
	ReportID  int64
	URI       string
	Caption   string
	Timestamp time.Time
}

// Store supplies the stored records an export pulls from.
type Store interface {
	GetReport(ctx context.Context, id int64) (*Report, error)
	SpeciesForReport(ctx context.Context, reportID int64) ([]SpeciesCount, error)
	PhotosForReport(ctx context.Context, reportID int64) ([]Photo, error)
}

// Payload is the flattened, render-ready form of one report. All values
// are strings; dates are pre-formatted by BuildPayload. A payload is
// built once per export request and consumed read-only.
type Payload struct {
	ReportID   int64
	ReportName string
	VisitRows  []map[string]string
	UseRows    []map[string]string
	BioRows    []map[string]string
	PhotoRows  []map[string]string
}

// Visit returns the first visit row, or an empty map when absent.
func (p *Payload) Visit() map[string]string { return firstRow(p.VisitRows) }

// Use returns the first use row, or an empty map when absent.
func (p *Payload) Use() map[string]string { return firstRow(p.UseRows) }

func firstRow(rows []map[string]string) map[string]string {
	if len(rows) == 0 {
		return map[string]string{}
	}
	return rows[0]
}

// Column orders for the generic CSV renderer.
var (
	visitKeyOrder = []string{
		"mssAcc", "caveName", "owner", "unit", "monitorDate",
		"organization", "monitoredBy", "areaMonitored", "rationale", "location",
	}
	useKeyOrder = []string{
		"visitation", "litter", "speleothemVandalism", "graffiti",
		"archaeologicalLooting", "fires", "camping", "currentDisturbance",
		"potentialDisturbance", "manageConsiderations", "recommendations",
		"otherComments",
	}
	bioKeyOrder   = []string{"id", "speciesName", "count", "notes"}
	photoKeyOrder = []string{"uri", "caption", "timestamp"}
)
