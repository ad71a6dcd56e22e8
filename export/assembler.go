package export

import (
	"context"
	"strconv"

	"github.com/crfcave/cavereport/observability"
)

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04"
)

// BuildPayload pulls a report with its species counts and photos and
// flattens them into the row-map payload the renderers consume. The
// only transforms applied are date and count formatting; everything
// else passes through verbatim.
func BuildPayload(ctx context.Context, st Store, reportID int64, log observability.Logger) (*Payload, error) {
	if log == nil {
		log = observability.NopLogger{}
	}

	report, err := st.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	species, err := st.SpeciesForReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	photos, err := st.PhotosForReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	visitRow := map[string]string{
		"mssAcc":        report.MSSAcc,
		"caveName":      report.CaveName,
		"owner":         report.Owner,
		"unit":          report.Unit,
		"monitorDate":   report.MonitorDate.Format(dateFormat),
		"rationale":     report.Rationale,
		"areaMonitored": report.AreaMonitored,
		"organization":  report.Organization,
		"monitoredBy":   report.MonitoredBy,
		"location":      report.Location,
	}

	useRow := map[string]string{
		"visitation":            report.Visitation,
		"litter":                report.Litter,
		"speleothemVandalism":   report.SpeleothemVandalism,
		"graffiti":              report.Graffiti,
		"archaeologicalLooting": report.ArchaeologicalLooting,
		"fires":                 report.Fires,
		"camping":               report.Camping,
		"currentDisturbance":    report.CurrentDisturbance,
		"potentialDisturbance":  report.PotentialDisturbance,
		"manageConsiderations":  report.ManageConsiderations,
		"recommendations":       report.Recommendations,
		"otherComments":         report.OtherComments,
	}

	bioRows := make([]map[string]string, 0, len(species))
	for _, s := range species {
		id := ""
		if s.SpeciesID != nil {
			id = strconv.FormatInt(*s.SpeciesID, 10)
		}
		bioRows = append(bioRows, map[string]string{
			"id":          id,
			"speciesName": s.SpeciesName,
			"count":       strconv.Itoa(s.Count),
			"notes":       s.Notes,
		})
	}

	photoRows := make([]map[string]string, 0, len(photos))
	for _, p := range photos {
		photoRows = append(photoRows, map[string]string{
			"uri":       p.URI,
			"caption":   p.Caption,
			"timestamp": p.Timestamp.Format(dateTimeFormat),
		})
	}

	log.Debug("payload assembled",
		observability.Int64("report_id", reportID),
		observability.Int("species", len(bioRows)),
		observability.Int("photos", len(photoRows)))

	return &Payload{
		ReportID:   reportID,
		ReportName: report.CaveName + " " + report.MonitorDate.Format(dateFormat),
		VisitRows:  []map[string]string{visitRow},
		UseRows:    []map[string]string{useRow},
		BioRows:    bioRows,
		PhotoRows:  photoRows,
	}, nil
}
