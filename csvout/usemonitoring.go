package csvout

import (
	"strings"
	"time"
)

// useMonitoringHeaders is the column set of the MSS use-monitoring
// spreadsheet. Order is dictated by the external schema and must not
// change.
var useMonitoringHeaders = []string{
	"Accession #",
	"Archaeological looting",
	"Area monitored",
	"Camping",
	"Cave",
	"Current Disturbance",
	"Date Entered",
	"District/Unit",
	"Fires",
	"Graffiti",
	"Monitor Date",
	"Monitored by",
	"New Record",
	"Organization",
	"Other Comments",
	"Other Considerations",
	"Owner",
	"Photo subjects",
	"Potential Disturbance",
	"Rationale",
	"Recommendations for Management",
	"Speleothem Vandalism",
	"Trash",
	"Visitation",
}

// UseMonitoringHeaders returns a copy of the fixed column set.
func UseMonitoringHeaders() []string {
	out := make([]string, len(useMonitoringHeaders))
	copy(out, useMonitoringHeaders)
	return out
}

// UseMonitoring renders the single-row use-monitoring CSV. visit and use
// are the first visit and use row maps of the payload; photos contribute
// their captions to the "Photo subjects" column. now supplies the "Date
// Entered" value so callers control the clock.
func UseMonitoring(visit, use map[string]string, photos []map[string]string, now time.Time) string {
	g := func(m map[string]string, key string) string {
		return strings.TrimSpace(m[key])
	}

	var subjects []string
	for _, p := range photos {
		if c := strings.TrimSpace(p["caption"]); c != "" {
			subjects = append(subjects, c)
		}
	}

	var other strings.Builder
	other.WriteString(g(use, "otherComments"))
	if loc := g(visit, "location"); loc != "" {
		if other.Len() > 0 {
			other.WriteString("  ")
		}
		other.WriteString("[Location: ")
		other.WriteString(loc)
		other.WriteString("]")
	}

	row := []string{
		g(visit, "mssAcc"),                  // Accession #
		YN(g(use, "archaeologicalLooting")), // Archaeological looting
		g(visit, "areaMonitored"),           // Area monitored
		YN(g(use, "camping")),               // Camping
		g(visit, "caveName"),                // Cave
		g(use, "currentDisturbance"),        // Current Disturbance
		now.Format("01/02/2006"),            // Date Entered
		g(visit, "unit"),                    // District/Unit
		YN(g(use, "fires")),                 // Fires
		YN(g(use, "graffiti")),              // Graffiti
		ReformatDate(g(visit, "monitorDate")), // Monitor Date
		g(visit, "monitoredBy"),             // Monitored by
		"",                                  // New Record
		g(visit, "organization"),            // Organization
		other.String(),                      // Other Comments
		g(use, "manageConsiderations"),      // Other Considerations
		g(visit, "owner"),                   // Owner
		strings.Join(subjects, "; "),        // Photo subjects
		g(use, "potentialDisturbance"),      // Potential Disturbance
		g(visit, "rationale"),               // Rationale
		g(use, "recommendations"),           // Recommendations for Management
		YN(g(use, "speleothemVandalism")),   // Speleothem Vandalism
		YN(g(use, "litter")),                // Trash
		g(use, "visitation"),                // Visitation
	}

	var sb strings.Builder
	writeRow(&sb, useMonitoringHeaders)
	writeRow(&sb, row)
	return sb.String()
}
