package csvout

import "strings"

var bioHeaders = []string{
	"SpNum",
	"Common Name",
	"Number Observed",
	"Comments",
}

// Bio renders the species-list CSV, one row per bio row map.
func Bio(rows []map[string]string) string {
	var sb strings.Builder
	writeRow(&sb, bioHeaders)
	for _, r := range rows {
		writeRow(&sb, []string{
			strings.TrimSpace(r["id"]),
			strings.TrimSpace(r["speciesName"]),
			strings.TrimSpace(r["count"]),
			strings.TrimSpace(r["notes"]),
		})
	}
	return sb.String()
}
