// Package csvout renders report payload rows into the three CSV schemas
// the export pipeline supports: a generic section dump, the
// use-monitoring sheet consumed by the MSS cave database, and the bio
// monitoring species list.
//
// All renderers are stateless pure functions over row maps. Field
// escaping follows the spreadsheet convention of quoting only when a
// field contains a comma, quote, or newline.
package csvout

import (
	"sort"
	"strings"
	"time"
)

// Escape quotes a field when it contains a comma, quote, or newline,
// doubling any embedded quotes. Other values pass through literally.
func Escape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// YN normalizes boolean-ish tokens to "Yes"/"No". Unrecognized values
// pass through unchanged so free-text answers survive.
func YN(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "y", "yes":
		return "Yes"
	case "false", "0", "n", "no":
		return "No"
	default:
		return v
	}
}

// ReformatDate converts a yyyy-MM-dd date to MM/dd/yyyy. Blank input
// yields blank; anything unparseable is returned as-is.
func ReformatDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return raw
	}
	return t.Format("01/02/2006")
}

func writeRow(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Escape(f))
	}
	sb.WriteByte('\n')
}

// Section is one labeled group of rows for the generic renderer.
// KeyOrder fixes the column order; row maps carry the values. Keys
// present in a row but absent from KeyOrder are appended in sorted order
// so output stays deterministic.
type Section struct {
	Label    string
	KeyOrder []string
	Rows     []map[string]string
}

// Generic renders each section as a "# <Label>" comment line, a header
// row holding the union of keys across the section's rows, and one data
// row per row map with missing keys left empty. Sections are separated
// by one blank line. A section with no rows still emits its comment line
// and an empty header row.
func Generic(sections []Section) string {
	var sb strings.Builder
	for si, sec := range sections {
		if si > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("# ")
		sb.WriteString(sec.Label)
		sb.WriteByte('\n')

		keys := sectionKeys(sec)
		writeRow(&sb, keys)
		for _, row := range sec.Rows {
			fields := make([]string, len(keys))
			for i, k := range keys {
				fields[i] = row[k]
			}
			writeRow(&sb, fields)
		}
	}
	return sb.String()
}

// sectionKeys returns the union of keys across a section's rows: the
// declared order first, restricted to keys some row actually has, then
// any stragglers sorted.
func sectionKeys(sec Section) []string {
	present := make(map[string]bool)
	for _, row := range sec.Rows {
		for k := range row {
			present[k] = true
		}
	}

	var keys []string
	taken := make(map[string]bool)
	for _, k := range sec.KeyOrder {
		if present[k] && !taken[k] {
			taken[k] = true
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range present {
		if !taken[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
