package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/paulmach/orb"
)

// ErrObjectNotFound is returned when a named object is absent from a topology.
var ErrObjectNotFound = errors.New("topology object not found")

// Topology is a decoded TopoJSON document.
type Topology struct {
	Type      string               `json:"type"`
	BBox      []float64            `json:"bbox,omitempty"`
	Transform *Transform           `json:"transform,omitempty"`
	Arcs      [][][]float64        `json:"arcs"`
	Objects   map[string]*Geometry `json:"objects"`

	arcs []orb.LineString // absolute lon/lat, filled by Decode
}

// Transform is the quantization transform of a topology.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Geometry is a topology object. Arcs and Coordinates keep their raw form
// because their nesting depends on Type.
type Geometry struct {
	Type        string                 `json:"type"`
	ID          interface{}            `json:"id,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
	Arcs        json.RawMessage        `json:"arcs,omitempty"`
	Coordinates json.RawMessage        `json:"coordinates,omitempty"`
	Geometries  []*Geometry            `json:"geometries,omitempty"`
}

// Decode reads a TopoJSON document and resolves its arcs.
func Decode(r io.Reader) (*Topology, error) {
	t := &Topology{}
	if err := json.NewDecoder(r).Decode(t); err != nil {
		return nil, fmt.Errorf("decoding topology: %w", err)
	}
	if t.Type != "Topology" {
		return nil, fmt.Errorf("unexpected document type %q", t.Type)
	}

	t.arcs = make([]orb.LineString, len(t.Arcs))
	for i, raw := range t.Arcs {
		t.arcs[i] = t.decodeArc(raw)
	}
	return t, nil
}

// Parse is Decode over a byte slice.
func Parse(data []byte) (*Topology, error) {
	return Decode(bytes.NewReader(data))
}

// ObjectNames lists the object names in lexical order.
func (t *Topology) ObjectNames() []string {
	names := make([]string, 0, len(t.Objects))
	for name := range t.Objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Object returns a named object.
func (t *Topology) Object(name string) (*Geometry, bool) {
	g, ok := t.Objects[name]
	return g, ok && g != nil
}

// ArcCount is the number of decoded arcs.
func (t *Topology) ArcCount() int {
	return len(t.arcs)
}

func (t *Topology) decodeArc(raw [][]float64) orb.LineString {
	ls := make(orb.LineString, 0, len(raw))
	if t.Transform == nil {
		for _, p := range raw {
			if len(p) < 2 {
				continue
			}
			ls = append(ls, orb.Point{p[0], p[1]})
		}
		return ls
	}

	// quantized arcs are delta encoded
	var x, y float64
	for _, p := range raw {
		if len(p) < 2 {
			continue
		}
		x += p[0]
		y += p[1]
		ls = append(ls, t.transformPoint(x, y))
	}
	return ls
}

func (t *Topology) transformPoint(x, y float64) orb.Point {
	if t.Transform == nil {
		return orb.Point{x, y}
	}
	return orb.Point{
		x*t.Transform.Scale[0] + t.Transform.Translate[0],
		y*t.Transform.Scale[1] + t.Transform.Translate[1],
	}
}
