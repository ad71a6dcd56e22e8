// Command cavereport renders cave monitoring reports from a SQLite
// database into CSV or PDF files.
//
// Usage:
//
//	cavereport [-config file] list
//	cavereport [-config file] export -report <id> [-format pdf|use-csv|bio-csv|generic-csv]
//	           [-sections visit,use,bio,photos] [-out dir]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crfcave/cavereport/export"
	"github.com/crfcave/cavereport/observability"
	"github.com/crfcave/cavereport/store"
)

type config struct {
	DB      string `yaml:"db"`
	OutDir  string `yaml:"out_dir"`
	Verbose bool   `yaml:"verbose"`
}

func defaultConfig() config {
	return config{DB: "cavereport.db", OutDir: "."}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: cavereport [-config file] <list|export> [flags]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cavereport: %v\n", err)
		os.Exit(2)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := observability.LevelInfo
	if cfg.Verbose {
		level = observability.LevelDebug
	}
	log := observability.NewStderrLogger(level)

	switch args[0] {
	case "list":
		err = runList(cfg, log)
	case "export":
		err = runExport(cfg, log, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "cavereport: unknown command %q\n", args[0])
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cavereport: %v\n", err)
		os.Exit(1)
	}
}

func runList(cfg config, log observability.Logger) error {
	db, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	reports, err := db.ListReports(context.Background())
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("no reports")
		return nil
	}
	for _, r := range reports {
		fmt.Printf("%d\t%s\t%s\n", r.ID, r.MonitorDate.Format("2006-01-02"), r.CaveName)
	}
	log.Debug("listed reports", observability.Int("count", len(reports)))
	return nil
}

func runExport(cfg config, log observability.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	reportID := fs.Int64("report", 0, "Report id to export")
	format := fs.String("format", "pdf", "Output format: pdf, use-csv, bio-csv, or generic-csv")
	sections := fs.String("sections", "", "Comma-separated sections (visit,use,bio,photos); empty means all")
	outDir := fs.String("out", cfg.OutDir, "Output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *reportID <= 0 {
		return fmt.Errorf("export: -report is required")
	}

	sel, err := parseSelection(*format, *sections)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	ex := &export.Exporter{
		Store:  db,
		Images: export.FileImageLoader{},
		Logger: log,
	}
	path, err := ex.Export(context.Background(), *reportID, sel, *outDir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func parseSelection(format, sections string) (export.Selection, error) {
	var sel export.Selection
	switch format {
	case "pdf":
		sel.Format = export.FormatPDF
	case "use-csv":
		sel.Format = export.FormatCSVUseMonitoring
		sel.Schema = export.SchemaUseMonitoring
	case "bio-csv":
		sel.Format = export.FormatCSVBioMonitoring
		sel.Schema = export.SchemaBio
	case "generic-csv":
		sel.Format = export.FormatCSVUseMonitoring
		sel.Schema = export.SchemaGeneric
	default:
		return sel, fmt.Errorf("unknown format %q", format)
	}

	for _, raw := range strings.Split(sections, ",") {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "":
		case "all":
			sel.Sections = append(sel.Sections, export.SectionAll)
		case "visit":
			sel.Sections = append(sel.Sections, export.SectionVisit)
		case "use":
			sel.Sections = append(sel.Sections, export.SectionUse)
		case "bio":
			sel.Sections = append(sel.Sections, export.SectionBio)
		case "photos":
			sel.Sections = append(sel.Sections, export.SectionPhotos)
		default:
			return sel, fmt.Errorf("unknown section %q", raw)
		}
	}
	return sel.Normalize(), nil
}
