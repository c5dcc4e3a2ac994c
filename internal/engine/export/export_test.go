package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rendis/firmap/internal/engine/storage"
)

func sample() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	paris := geojson.NewFeature(orb.Polygon{{{0, 40}, {5, 40}, {5, 50}, {0, 50}, {0, 40}}})
	paris.Properties = geojson.Properties{
		"designator": "LFFF", "name": "PARIS", "type": "FIR", "lower": 0.0, "upper": 195.0,
	}
	fc.Append(paris)

	atlantic := geojson.NewFeature(orb.MultiPolygon{
		{{{-40, 0}, {-30, 0}, {-30, 10}, {-40, 10}, {-40, 0}}},
		{{{-20, 0}, {-10, 0}, {-10, 10}, {-20, 10}, {-20, 0}}},
	})
	atlantic.Properties = geojson.Properties{
		"designator": "", "name": "Atlantic", "type": "NO_FIR", "lower": 0.0,
	}
	fc.Append(atlantic)

	return fc
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(" " + strings.ToUpper(string(f)) + " ")
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("shp"); err == nil {
		t.Error("expected error for shp")
	}
	if SQLite.Extension() != ".db" || CSV.Extension() != ".csv" {
		t.Errorf("unexpected extensions %q %q", SQLite.Extension(), CSV.Extension())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, sample(), 100)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d rows, want 2", n)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	want := [][]string{
		Columns,
		{"LFFF", "PARIS", "FIR", "0", "195", storage.PartitionFIR},
		{"", "Atlantic", "NO_FIR", "0", "999", storage.PartitionNoFIR},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %v, want %v", records, want)
	}
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteGeoJSON(&buf, sample())
	if err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d features, want 2", n)
	}

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	if err != nil {
		t.Fatalf("output is not geojson: %v", err)
	}
	if len(fc.Features) != 2 || fc.Features[0].Properties.MustString("designator") != "LFFF" {
		t.Errorf("unexpected features %+v", fc.Features)
	}
}

func TestWriteFlatGeobuf(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteFlatGeobuf(&buf, sample(), "firs")
	if err != nil {
		t.Fatalf("WriteFlatGeobuf: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d features, want 2", n)
	}

	magic := []byte{0x66, 0x67, 0x62, 0x03, 0x66, 0x67, 0x62, 0x00}
	if !bytes.HasPrefix(buf.Bytes(), magic) {
		t.Errorf("missing flatgeobuf magic, got % x", buf.Bytes()[:8])
	}
}

func TestWriteFlatGeobufEmpty(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))

	_, err := WriteFlatGeobuf(&bytes.Buffer{}, fc, "firs")
	if !errors.Is(err, ErrNoFeatures) {
		t.Errorf("err = %v, want ErrNoFeatures", err)
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	for _, f := range Formats() {
		path := filepath.Join(dir, "firs"+f.Extension())
		n, err := ToFile(path, f, sample(), 100)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if n != 2 {
			t.Errorf("%s: exported %d, want 2", f, n)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s: empty file", f)
		}
	}

	store, err := storage.NewStore(filepath.Join(dir, "firs.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	count, err := store.Count()
	if err != nil || count != 2 {
		t.Errorf("stored %d rows (%v), want 2", count, err)
	}
}

func TestToFileSQLiteRerun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firs.db")
	for i := 0; i < 2; i++ {
		if _, err := ToFile(path, SQLite, sample(), 100); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	store, err := storage.NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	count, err := store.Count()
	if err != nil || count != 2 {
		t.Errorf("stored %d rows (%v) after two runs, want 2", count, err)
	}
}

func TestMultiPolygon(t *testing.T) {
	poly := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
	tests := []struct {
		name string
		in   orb.Geometry
		want int
		ok   bool
	}{
		{"polygon", poly, 1, true},
		{"multipolygon", orb.MultiPolygon{poly, poly}, 2, true},
		{"collection", orb.Collection{poly, orb.Point{0, 0}, orb.MultiPolygon{poly}}, 2, true},
		{"line", orb.LineString{{0, 0}, {1, 1}}, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range tests {
		mp, ok := multiPolygon(tc.in)
		if ok != tc.ok || len(mp) != tc.want {
			t.Errorf("%s: got %d polygons ok=%v, want %d ok=%v", tc.name, len(mp), ok, tc.want, tc.ok)
		}
	}
}
