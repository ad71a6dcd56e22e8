// Package store persists monitoring reports in SQLite and serves them
// to the export pipeline.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/crfcave/cavereport/export"
)

// Schema defines the three report tables. Dates are stored as unix
// seconds.
const Schema = `
CREATE TABLE IF NOT EXISTS report (
    id                     INTEGER PRIMARY KEY AUTOINCREMENT,
    mss_acc                TEXT NOT NULL DEFAULT '',
    cave_name              TEXT NOT NULL DEFAULT '',
    owner                  TEXT NOT NULL DEFAULT '',
    unit                   TEXT NOT NULL DEFAULT '',
    monitor_date           INTEGER NOT NULL,
    rationale              TEXT NOT NULL DEFAULT '',
    area_monitored         TEXT NOT NULL DEFAULT '',
    organization           TEXT NOT NULL DEFAULT '',
    monitored_by           TEXT NOT NULL DEFAULT '',
    visitation             TEXT NOT NULL DEFAULT '',
    litter                 TEXT NOT NULL DEFAULT '',
    speleothem_vandalism   TEXT NOT NULL DEFAULT '',
    graffiti               TEXT NOT NULL DEFAULT '',
    archaeological_looting TEXT NOT NULL DEFAULT '',
    fires                  TEXT NOT NULL DEFAULT '',
    camping                TEXT NOT NULL DEFAULT '',
    current_disturbance    TEXT NOT NULL DEFAULT '',
    potential_disturbance  TEXT NOT NULL DEFAULT '',
    manage_considerations  TEXT NOT NULL DEFAULT '',
    recommendations        TEXT NOT NULL DEFAULT '',
    other_comments         TEXT NOT NULL DEFAULT '',
    location               TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS species_count (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    report_id    INTEGER NOT NULL REFERENCES report(id) ON DELETE CASCADE,
    species_id   INTEGER,
    species_name TEXT NOT NULL DEFAULT '',
    count        INTEGER NOT NULL DEFAULT 0,
    notes        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_species_count_report ON species_count(report_id);

CREATE TABLE IF NOT EXISTS photo (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    report_id INTEGER NOT NULL REFERENCES report(id) ON DELETE CASCADE,
    uri       TEXT NOT NULL,
    caption   TEXT NOT NULL DEFAULT '',
    timestamp INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_photo_report ON photo(report_id);
`

// DB wraps the SQLite handle. It satisfies export.Store.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies
// the schema. WAL and a busy timeout keep concurrent exports from
// tripping over occasional writes.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (s *DB) Close() error { return s.db.Close() }

const reportColumns = `id, mss_acc, cave_name, owner, unit, monitor_date,
    rationale, area_monitored, organization, monitored_by,
    visitation, litter, speleothem_vandalism, graffiti, archaeological_looting,
    fires, camping, current_disturbance, potential_disturbance,
    manage_considerations, recommendations, other_comments, location`

func scanReport(row interface{ Scan(...any) error }) (*export.Report, error) {
	var r export.Report
	var monitorDate int64
	err := row.Scan(
		&r.ID, &r.MSSAcc, &r.CaveName, &r.Owner, &r.Unit, &monitorDate,
		&r.Rationale, &r.AreaMonitored, &r.Organization, &r.MonitoredBy,
		&r.Visitation, &r.Litter, &r.SpeleothemVandalism, &r.Graffiti, &r.ArchaeologicalLooting,
		&r.Fires, &r.Camping, &r.CurrentDisturbance, &r.PotentialDisturbance,
		&r.ManageConsiderations, &r.Recommendations, &r.OtherComments, &r.Location,
	)
	if err != nil {
		return nil, err
	}
	r.MonitorDate = time.Unix(monitorDate, 0).UTC()
	return &r, nil
}

func (s *DB) GetReport(ctx context.Context, id int64) (*export.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM report WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, export.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report %d: %w", id, err)
	}
	return r, nil
}

// ListReports returns every report ordered by monitor date descending.
func (s *DB) ListReports(ctx context.Context) ([]*export.Report, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reportColumns+` FROM report ORDER BY monitor_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*export.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *DB) SpeciesForReport(ctx context.Context, reportID int64) ([]export.SpeciesCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, species_id, species_name, count, notes
		 FROM species_count WHERE report_id = ? ORDER BY id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("species for report %d: %w", reportID, err)
	}
	defer rows.Close()

	var out []export.SpeciesCount
	for rows.Next() {
		var sc export.SpeciesCount
		var speciesID sql.NullInt64
		if err := rows.Scan(&sc.ID, &sc.ReportID, &speciesID, &sc.SpeciesName, &sc.Count, &sc.Notes); err != nil {
			return nil, fmt.Errorf("scan species row: %w", err)
		}
		if speciesID.Valid {
			v := speciesID.Int64
			sc.SpeciesID = &v
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *DB) PhotosForReport(ctx context.Context, reportID int64) ([]export.Photo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, uri, caption, timestamp
		 FROM photo WHERE report_id = ? ORDER BY id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("photos for report %d: %w", reportID, err)
	}
	defer rows.Close()

	var out []export.Photo
	for rows.Next() {
		var p export.Photo
		var ts int64
		if err := rows.Scan(&p.ID, &p.ReportID, &p.URI, &p.Caption, &ts); err != nil {
			return nil, fmt.Errorf("scan photo row: %w", err)
		}
		p.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertReport stores a report and returns its assigned id.
func (s *DB) InsertReport(ctx context.Context, r *export.Report) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO report (
		    mss_acc, cave_name, owner, unit, monitor_date,
		    rationale, area_monitored, organization, monitored_by,
		    visitation, litter, speleothem_vandalism, graffiti, archaeological_looting,
		    fires, camping, current_disturbance, potential_disturbance,
		    manage_considerations, recommendations, other_comments, location
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.MSSAcc, r.CaveName, r.Owner, r.Unit, r.MonitorDate.Unix(),
		r.Rationale, r.AreaMonitored, r.Organization, r.MonitoredBy,
		r.Visitation, r.Litter, r.SpeleothemVandalism, r.Graffiti, r.ArchaeologicalLooting,
		r.Fires, r.Camping, r.CurrentDisturbance, r.PotentialDisturbance,
		r.ManageConsiderations, r.Recommendations, r.OtherComments, r.Location,
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	return res.LastInsertId()
}

// InsertSpeciesCount stores one species row and returns its id.
func (s *DB) InsertSpeciesCount(ctx context.Context, sc *export.SpeciesCount) (int64, error) {
	var speciesID sql.NullInt64
	if sc.SpeciesID != nil {
		speciesID = sql.NullInt64{Int64: *sc.SpeciesID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO species_count (report_id, species_id, species_name, count, notes)
		VALUES (?,?,?,?,?)`,
		sc.ReportID, speciesID, sc.SpeciesName, sc.Count, sc.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert species count: %w", err)
	}
	return res.LastInsertId()
}

// InsertPhoto stores one photo row and returns its id.
func (s *DB) InsertPhoto(ctx context.Context, p *export.Photo) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO photo (report_id, uri, caption, timestamp)
		VALUES (?,?,?,?)`,
		p.ReportID, p.URI, p.Caption, p.Timestamp.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert photo: %w", err)
	}
	return res.LastInsertId()
}
