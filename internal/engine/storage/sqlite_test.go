package storage

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func feature(designator, typ string, lower, upper float64) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	f.Properties = geojson.Properties{
		"designator": designator,
		"name":       designator + " CONTROL",
		"type":       typ,
		"lower":      lower,
	}
	if upper > 0 {
		f.Properties["upper"] = upper
	}
	return f
}

func TestStoreInsertFeatures(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "firs.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	fc := geojson.NewFeatureCollection()
	fc.Append(feature("LFFF", "FIR", 0, 195))
	fc.Append(feature("", "NO_FIR", 0, 0))
	fc.Append(feature("EGTT", "FIR", 0, 245))

	n, err := store.InsertFeatures(fc, 100)
	if err != nil {
		t.Fatalf("InsertFeatures: %v", err)
	}
	if n != 3 {
		t.Fatalf("inserted %d rows, want 3", n)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}

	firs, err := store.Designators(PartitionFIR)
	if err != nil {
		t.Fatalf("Designators: %v", err)
	}
	if want := []string{"LFFF", "EGTT"}; !reflect.DeepEqual(firs, want) {
		t.Errorf("fir designators = %v, want %v", firs, want)
	}

	noFirs, err := store.Designators(PartitionNoFIR)
	if err != nil {
		t.Fatalf("Designators: %v", err)
	}
	if want := []string{""}; !reflect.DeepEqual(noFirs, want) {
		t.Errorf("no-fir designators = %v, want %v", noFirs, want)
	}
}

func TestNewRow(t *testing.T) {
	row, err := NewRow(feature("", "NO_FIR", 0, 0), 50)
	if err != nil {
		t.Fatalf("NewRow: %v", err)
	}
	if row.Partition != PartitionNoFIR {
		t.Errorf("Partition = %q, want %q", row.Partition, PartitionNoFIR)
	}
	if row.Upper != 999 {
		t.Errorf("Upper = %v, want 999", row.Upper)
	}
	if row.FlightLevel != 50 {
		t.Errorf("FlightLevel = %d, want 50", row.FlightLevel)
	}

	var g struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(row.Geometry), &g); err != nil {
		t.Fatalf("geometry is not JSON: %v", err)
	}
	if g.Type != "Polygon" {
		t.Errorf("geometry type = %q, want Polygon", g.Type)
	}
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firs.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.InsertBatch([]Row{{FlightLevel: 100, Partition: PartitionFIR}}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	store.Close()

	store, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}

func TestStoreReplaceFeatures(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "firs.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	fc := geojson.NewFeatureCollection()
	fc.Append(feature("LFFF", "FIR", 0, 195))
	fc.Append(feature("EGTT", "FIR", 0, 245))

	if _, err := store.InsertFeatures(fc, 300); err != nil {
		t.Fatalf("InsertFeatures: %v", err)
	}
	for i := 0; i < 2; i++ {
		n, err := store.ReplaceFeatures(fc, 100)
		if err != nil {
			t.Fatalf("ReplaceFeatures #%d: %v", i, err)
		}
		if n != 2 {
			t.Errorf("ReplaceFeatures #%d stored %d rows, want 2", i, n)
		}
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 4 {
		t.Errorf("Count = %d, want 4 (2 at FL100, 2 at FL300)", count)
	}
}
