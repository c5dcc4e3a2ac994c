package storage

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/paulmach/orb/geojson"
	_ "modernc.org/sqlite"

	"github.com/rendis/firmap/internal/engine/fir"
)

// Partition labels stored with every exported row.
const (
	PartitionFIR   = "fir"
	PartitionNoFIR = "nofir"
)

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Row is one exported FIR as stored in the firs table.
type Row struct {
	fir.Summary
	FlightLevel int
	Partition   string
	Geometry    string
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS firs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		designator TEXT NOT NULL,
		name TEXT,
		type TEXT,
		lower REAL NOT NULL,
		upper REAL NOT NULL,
		partition TEXT NOT NULL,
		flight_level INTEGER NOT NULL,
		geometry TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_firs_designator ON firs(designator);
	CREATE INDEX IF NOT EXISTS idx_firs_level ON firs(flight_level);
	`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// InsertFeatures stores every feature of fc selected at flight level fl.
func (s *Store) InsertFeatures(fc *geojson.FeatureCollection, fl int) (int, error) {
	rows, err := rowsOf(fc, fl)
	if err != nil {
		return 0, err
	}
	return s.InsertBatch(rows)
}

func rowsOf(fc *geojson.FeatureCollection, fl int) ([]Row, error) {
	if fc == nil {
		return nil, nil
	}
	rows := make([]Row, 0, len(fc.Features))
	for _, f := range fc.Features {
		row, err := NewRow(f, fl)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NewRow converts a selected feature into a Row.
func NewRow(f *geojson.Feature, fl int) (Row, error) {
	row := Row{
		Summary:     fir.Summarize(f),
		FlightLevel: fl,
		Partition:   PartitionFIR,
	}
	if row.NoFIR {
		row.Partition = PartitionNoFIR
	}
	if f.Geometry != nil {
		data, err := geojson.NewGeometry(f.Geometry).MarshalJSON()
		if err != nil {
			return Row{}, fmt.Errorf("encoding geometry of %q: %w", row.Designator, err)
		}
		row.Geometry = string(data)
	}
	return row, nil
}

func (s *Store) InsertBatch(rows []Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning tx: %w", err)
	}
	inserted, err := insertRows(tx, rows)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing tx: %w", err)
	}

	return inserted, nil
}

// ReplaceFeatures stores fc as the only rows of flight level fl. Rows of
// other flight levels are kept.
func (s *Store) ReplaceFeatures(fc *geojson.FeatureCollection, fl int) (int, error) {
	rows, err := rowsOf(fc, fl)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning tx: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM firs WHERE flight_level = ?", fl); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("clearing FL%03d: %w", fl, err)
	}
	inserted, err := insertRows(tx, rows)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing tx: %w", err)
	}

	return inserted, nil
}

func insertRows(tx *sql.Tx, rows []Row) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO firs
		(designator, name, type, lower, upper, partition, flight_level, geometry)
		VALUES (?,?,?,?,?,?,?,?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing stmt: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range rows {
		res, err := stmt.Exec(
			r.Designator, r.Name, r.Type, r.Lower, r.Upper,
			r.Partition, r.FlightLevel, r.Geometry,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting %q: %w", r.Designator, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	return inserted, nil
}

func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM firs").Scan(&count)
	return count, err
}

// Designators lists the stored designators of one partition in insertion order.
func (s *Store) Designators(partition string) ([]string, error) {
	rows, err := s.db.Query("SELECT designator FROM firs WHERE partition = ? ORDER BY id", partition)
	if err != nil {
		return nil, fmt.Errorf("querying designators: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning designator: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
