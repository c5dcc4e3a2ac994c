// Package export writes the FIRs applicable at a flight level to files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/rendis/firmap/internal/engine/storage"
)

// Format names an export file format.
type Format string

const (
	CSV         Format = "csv"
	GeoJSON     Format = "geojson"
	SQLite      Format = "sqlite"
	FlatGeobuf  Format = "fgb"
	defaultName        = "firs"
)

var log = logrus.WithField("module", "export")

// Columns lists the exported attributes in output order.
var Columns = []string{"designator", "name", "type", "lower", "upper", "partition"}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{CSV, GeoJSON, SQLite, FlatGeobuf}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Extension is the file extension used for the default output path.
func (f Format) Extension() string {
	switch f {
	case SQLite:
		return ".db"
	default:
		return "." + string(f)
	}
}

// ToFile writes fc, selected at flight level fl, to path in the given format
// and returns the number of exported features.
func ToFile(path string, format Format, fc *geojson.FeatureCollection, fl int) (int, error) {
	if format == SQLite {
		return toStore(path, fc, fl)
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	var n int
	switch format {
	case CSV:
		n, err = WriteCSV(out, fc, fl)
	case GeoJSON:
		n, err = WriteGeoJSON(out, fc)
	case FlatGeobuf:
		n, err = WriteFlatGeobuf(out, fc, defaultName)
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing output: %w", err)
	}

	log.WithFields(logrus.Fields{"path": path, "format": format, "features": n}).Info("export written")
	return n, nil
}

func toStore(path string, fc *geojson.FeatureCollection, fl int) (int, error) {
	store, err := storage.NewStore(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	n, err := store.ReplaceFeatures(fc, fl)
	if err != nil {
		return 0, fmt.Errorf("storing features: %w", err)
	}
	log.WithFields(logrus.Fields{"path": path, "format": SQLite, "features": n}).Info("export written")
	return n, nil
}

// WriteCSV writes one row per feature with the exported columns.
func WriteCSV(w io.Writer, fc *geojson.FeatureCollection, fl int) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	n := 0
	if fc != nil {
		for _, f := range fc.Features {
			row, err := storage.NewRow(f, fl)
			if err != nil {
				return n, err
			}
			if err := cw.Write(record(row)); err != nil {
				return n, fmt.Errorf("writing %q: %w", row.Designator, err)
			}
			n++
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flushing csv: %w", err)
	}
	return n, nil
}

func record(r storage.Row) []string {
	return []string{
		r.Designator,
		r.Name,
		r.Type,
		strconv.FormatFloat(r.Lower, 'f', -1, 64),
		strconv.FormatFloat(r.Upper, 'f', -1, 64),
		r.Partition,
	}
}

// WriteGeoJSON writes fc as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) (int, error) {
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("writing geojson: %w", err)
	}
	return len(fc.Features), nil
}
