package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/rendis/firmap/internal/engine/storage"
)

// ErrNoFeatures is returned when there is nothing to write to a FlatGeobuf file.
var ErrNoFeatures = errors.New("no polygonal features to export")

// WriteFlatGeobuf writes the polygonal features of fc as a MultiPolygon
// FlatGeobuf layer with the exported columns.
func WriteFlatGeobuf(w io.Writer, fc *geojson.FeatureCollection, name string) (int, error) {
	var rows []fgbRow
	if fc != nil {
		for _, f := range fc.Features {
			mp, ok := multiPolygon(f.Geometry)
			if !ok {
				continue
			}
			row, err := storage.NewRow(f, 0)
			if err != nil {
				return 0, err
			}
			rows = append(rows, fgbRow{row: row, geom: mp})
		}
	}
	if len(rows) == 0 {
		return 0, ErrNoFeatures
	}

	builder := flatbuffers.NewBuilder(4096)
	header := writer.NewHeader(builder)
	header.SetGeometryType(flattypes.GeometryTypeMultiPolygon)
	header.SetName(name)
	header.SetColumns(columns(builder))

	gen := &featureGenerator{rows: rows}
	if _, err := writer.NewWriter(header, false, gen, nil).Write(w); err != nil {
		return 0, fmt.Errorf("writing flatgeobuf: %w", err)
	}
	return len(rows), nil
}

type fgbRow struct {
	row  storage.Row
	geom orb.MultiPolygon
}

func columns(builder *flatbuffers.Builder) []*writer.Column {
	types := map[string]flattypes.ColumnType{
		"lower": flattypes.ColumnTypeDouble,
		"upper": flattypes.ColumnTypeDouble,
	}
	out := make([]*writer.Column, 0, len(Columns))
	for _, name := range Columns {
		col := writer.NewColumn(builder)
		col.SetName(name)
		col.SetTitle(name)
		if t, ok := types[name]; ok {
			col.SetType(t)
		} else {
			col.SetType(flattypes.ColumnTypeString)
		}
		col.SetNullable(true)
		out = append(out, col)
	}
	return out
}

type featureGenerator struct {
	rows  []fgbRow
	index int
}

func (g *featureGenerator) Generate() *writer.Feature {
	if g.index >= len(g.rows) {
		return nil
	}
	r := g.rows[g.index]
	g.index++

	builder := flatbuffers.NewBuilder(1024)
	feature := writer.NewFeature(builder)
	feature.SetGeometry(geometry(builder, r.geom))
	feature.SetProperties(properties(r.row))
	return feature
}

func geometry(builder *flatbuffers.Builder, mp orb.MultiPolygon) *writer.Geometry {
	g := writer.NewGeometry(builder)
	g.SetType(flattypes.GeometryTypeMultiPolygon)
	parts := make([]writer.Geometry, 0, len(mp))
	for _, poly := range mp {
		part := writer.NewGeometry(builder)
		part.SetType(flattypes.GeometryTypePolygon)
		xy, ends := polygonXY(poly)
		part.SetXY(xy)
		part.SetEnds(ends)
		parts = append(parts, *part)
	}
	g.SetParts(parts)
	return g
}

func polygonXY(poly orb.Polygon) ([]float64, []uint32) {
	var xy []float64
	ends := make([]uint32, 0, len(poly))
	var n uint32
	for _, ring := range poly {
		for _, p := range ring {
			xy = append(xy, p[0], p[1])
		}
		n += uint32(len(ring))
		ends = append(ends, n)
	}
	return xy, ends
}

// properties encodes a row as (uint16 column index, value) pairs. Strings
// are length prefixed, doubles are little endian.
func properties(r storage.Row) []byte {
	var buf bytes.Buffer
	values := []any{r.Designator, r.Name, r.Type, r.Lower, r.Upper, r.Partition}
	for i, v := range values {
		binary.Write(&buf, binary.LittleEndian, uint16(i))
		switch v := v.(type) {
		case string:
			binary.Write(&buf, binary.LittleEndian, uint32(len(v)))
			buf.WriteString(v)
		case float64:
			binary.Write(&buf, binary.LittleEndian, math.Float64bits(v))
		}
	}
	return buf.Bytes()
}

func multiPolygon(g orb.Geometry) (orb.MultiPolygon, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{v}, true
	case orb.MultiPolygon:
		return v, len(v) > 0
	case orb.Collection:
		var out orb.MultiPolygon
		for _, c := range v {
			if mp, ok := multiPolygon(c); ok {
				out = append(out, mp...)
			}
		}
		return out, len(out) > 0
	}
	return nil, false
}
