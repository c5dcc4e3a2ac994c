package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rendis/firmap/internal/engine/loader"
	"github.com/rendis/firmap/internal/engine/projection"
	"github.com/rendis/firmap/internal/engine/topology"
	"github.com/rendis/firmap/internal/engine/widget"
	"github.com/rendis/firmap/internal/tui/components"
)

const worldDoc = `{
  "type": "Topology",
  "objects": {"data": {"type": "GeometryCollection", "geometries": [
    {"type": "Polygon", "arcs": [[0]], "properties": {"region": "Europe"}}
  ]}},
  "arcs": [[[-10, 35], [30, 35], [30, 60], [-10, 60], [-10, 35]]]
}`

const firsDoc = `{
  "type": "Topology",
  "objects": {"data": {"type": "GeometryCollection", "geometries": [
    {"type": "Polygon", "arcs": [[0]],
     "properties": {"designator": "LFFF", "name": "PARIS", "lower": 0, "upper": 195, "type": "FIR"}},
    {"type": "Polygon", "arcs": [[1]],
     "properties": {"designator": "LIRR", "name": "ROMA", "lower": 0, "type": "FIR"}},
    {"type": "Polygon", "arcs": [[2]],
     "properties": {"lower": 0, "type": "NO_FIR", "name": "Atlantic"}}
  ]}},
  "arcs": [
    [[-5, 42], [8, 42], [8, 51], [-5, 51], [-5, 42]],
    [[8, 36], [18, 36], [18, 47], [8, 47], [8, 36]],
    [[-60, 0], [-30, 0], [-30, 30], [-60, 30], [-60, 0]]
  ]
}`

func decode(t *testing.T, doc string) *topology.Topology {
	t.Helper()
	topo, err := topology.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return topo
}

func loadedMap(t *testing.T) MapModel {
	t.Helper()
	m, err := NewMapModel("FIR projections", string(projection.Airy), 100)
	if err != nil {
		t.Fatalf("NewMapModel: %v", err)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	m.SetTopology(loader.World, decode(t, worldDoc))
	if m.Ready() {
		t.Fatal("ready with one topology")
	}
	m.SetTopology(loader.FIRs, decode(t, firsDoc))
	if !m.Ready() {
		t.Fatal("not ready with both topologies")
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapModelLoading(t *testing.T) {
	m, err := NewMapModel("FIR projections", string(projection.Airy), 100)
	if err != nil {
		t.Fatalf("NewMapModel: %v", err)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	view := m.View()
	if !strings.Contains(view, "FIR projections") {
		t.Error("title missing")
	}
	if !strings.Contains(view, "Loading map data") {
		t.Error("placeholder missing")
	}
	if !strings.Contains(view, "0/2 topologies") {
		t.Error("progress missing")
	}
}

func TestMapModelRenders(t *testing.T) {
	m := loadedMap(t)
	c, ok := m.widget.Artifact().(*components.Canvas)
	if !ok {
		t.Fatalf("artifact is %T", m.widget.Artifact())
	}
	if cols, rows := c.Size(); cols != 60 || rows != 24-chromeRows {
		t.Errorf("canvas %dx%d", cols, rows)
	}
	if strings.Contains(m.View(), "Loading") {
		t.Error("placeholder still shown")
	}

	var got []string
	for _, s := range m.Summaries() {
		got = append(got, s.Designator)
	}
	if strings.Join(got, ",") != "LFFF,LIRR," {
		t.Errorf("summaries = %q", got)
	}
}

func TestMapModelFlightLevelKeys(t *testing.T) {
	m := loadedMap(t)
	renders := m.widget.Renders()

	m, _ = m.Update(key("+"))
	if m.FlightLevel() != 110 {
		t.Errorf("FL = %d, want 110", m.FlightLevel())
	}
	if m.widget.Renders() != renders+1 {
		t.Error("flight level change did not re-render")
	}

	for i := 0; i < 200; i++ {
		m, _ = m.Update(key("+"))
	}
	if m.FlightLevel() != widget.MaxFlightLevel {
		t.Errorf("FL = %d, want clamp at %d", m.FlightLevel(), widget.MaxFlightLevel)
	}
	for i := 0; i < 200; i++ {
		m, _ = m.Update(key("-"))
	}
	if m.FlightLevel() != widget.MinFlightLevel {
		t.Errorf("FL = %d, want clamp at %d", m.FlightLevel(), widget.MinFlightLevel)
	}

	m, _ = m.Update(key("+"))
	m, _ = m.Update(key("+"))
	m, _ = m.Update(key("+"))
	m, _ = m.Update(key("+"))
	m, _ = m.Update(key("+"))
	m, _ = m.Update(key("+"))
	var got []string
	for _, s := range m.Summaries() {
		got = append(got, s.Designator)
	}
	if strings.Join(got, ",") != "LFFF,LIRR," {
		t.Errorf("FL%d summaries = %q", m.FlightLevel(), got)
	}
}

func TestMapModelProjection(t *testing.T) {
	m := loadedMap(t)

	m, _ = m.Update(key("p"))
	if !m.DropdownOpen() {
		t.Fatal("p did not open the dropdown")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.DropdownOpen() {
		t.Fatal("esc did not close the dropdown")
	}

	renders := m.widget.Renders()
	m, _ = m.Update(components.ProjectionChosenMsg{Name: string(projection.Bonne)})
	if m.widget.Projection() != projection.Bonne {
		t.Errorf("projection = %q, want Bonne", m.widget.Projection())
	}
	if m.widget.Renders() != renders+1 {
		t.Error("projection change did not re-render")
	}
	if !strings.Contains(m.View(), "Bonne") {
		t.Error("header does not show the projection")
	}

	m, _ = m.Update(components.ProjectionChosenMsg{Name: "Mercator"})
	if m.widget.Projection() != projection.Bonne {
		t.Error("unknown projection changed the selection")
	}
	if m.err == nil {
		t.Error("unknown projection not reported")
	}
}

func TestMapModelNavigation(t *testing.T) {
	m := loadedMap(t)
	_, cmd := m.Update(key("f"))
	if cmd == nil {
		t.Fatal("f produced no command")
	}
	if _, ok := cmd().(NavigateToFIRs); !ok {
		t.Error("f did not navigate to the FIR list")
	}

	cx, cy := m.cx, m.cy
	m, _ = m.Update(key("l"))
	m, _ = m.Update(key("j"))
	if m.cx != cx+1 || m.cy != cy+1 {
		t.Errorf("crosshair at %d,%d, want %d,%d", m.cx, m.cy, cx+1, cy+1)
	}
	for i := 0; i < 100; i++ {
		m, _ = m.Update(key("h"))
	}
	if m.cx != 0 {
		t.Errorf("crosshair x = %d, want 0", m.cx)
	}
}

func TestMapModelClose(t *testing.T) {
	m := loadedMap(t)
	c := m.widget.Artifact().(*components.Canvas)
	m.Close()
	if !c.Released() {
		t.Error("Close did not release the canvas")
	}
	if m.Ready() {
		t.Error("closed map reports ready")
	}
}
