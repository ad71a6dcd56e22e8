package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crfcave/cavereport/layout"
	"github.com/crfcave/cavereport/observability"
	"github.com/crfcave/cavereport/writer"
)

// Exporter runs the whole pipeline for one report: assemble the
// payload, render it in the selected format, and write the result to a
// file under the output directory.
type Exporter struct {
	Store  Store
	Images layout.ImageLoader
	Logger observability.Logger
	// Clock supplies the "Date Entered" and "Generated" timestamps.
	// Nil means time.Now.
	Clock func() time.Time
}

// Export renders reportID per the selection and writes the output file
// into dir, returning the written path. The file appears atomically:
// content goes to a temp name first and is renamed into place only
// after a successful write.
func (ex *Exporter) Export(ctx context.Context, reportID int64, sel Selection, dir string) (string, error) {
	log := ex.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	now := time.Now()
	if ex.Clock != nil {
		now = ex.Clock()
	}

	sel = sel.Normalize()
	if sel.Format == FormatCSVBioMonitoring && sel.Schema == SchemaUseMonitoring {
		sel.Schema = SchemaBio
	}

	p, err := BuildPayload(ctx, ex.Store, reportID, log)
	if err != nil {
		return "", fmt.Errorf("build payload for report %d: %w", reportID, err)
	}

	path := filepath.Join(dir, FileName(p.ReportName, sel.Format))

	switch sel.Format {
	case FormatPDF:
		doc, err := RenderPDF(p, sel, PDFOptions{Now: now, Images: ex.Images, Logger: log})
		if err != nil {
			return "", fmt.Errorf("render pdf: %w", err)
		}
		err = writeAtomic(path, func(w io.Writer) error {
			return writer.New().Write(doc, w)
		})
		if err != nil {
			return "", err
		}
	default:
		csv := RenderCSV(p, sel, now)
		err = writeAtomic(path, func(w io.Writer) error {
			_, werr := io.WriteString(w, csv)
			return werr
		})
		if err != nil {
			return "", err
		}
	}

	log.Info("export written",
		observability.Int64("report_id", reportID),
		observability.String("path", path))
	return path, nil
}

// FileName derives the output file name from the report name and
// format. A blank report name falls back to "report".
func FileName(reportName string, f Format) string {
	base := strings.TrimSpace(reportName)
	if base == "" {
		base = "report"
	}
	suffix, ext := "UseMonitoring", "csv"
	switch f {
	case FormatCSVBioMonitoring:
		suffix = "BioMonitoring"
	case FormatPDF:
		suffix, ext = "Report", "pdf"
	}
	return base + "-" + suffix + "." + ext
}

// writeAtomic writes via a temp file in the destination directory and
// renames it over path, so a crashed export never leaves a partial
// file under the final name.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, ".tmp-"+uuid.NewString())

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
