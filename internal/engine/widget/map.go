package widget

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rendis/firmap/internal/engine/compose"
	"github.com/rendis/firmap/internal/engine/projection"
	"github.com/rendis/firmap/internal/engine/render"
	"github.com/rendis/firmap/internal/engine/topology"
)

var log = logrus.WithField("module", "widget")

// ErrClosed is returned by setters after Close.
var ErrClosed = errors.New("map closed")

// Flight level limits accepted by SetFlightLevel.
const (
	MinFlightLevel = 0
	MaxFlightLevel = 990
)

// Phase is the render state of a Map.
type Phase int

const (
	// PhaseNoData shows the loading placeholder.
	PhaseNoData Phase = iota
	// PhaseRendering has a mounted artifact for the current inputs.
	PhaseRendering
	// PhaseClosed released its artifact.
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseNoData:
		return "no-data"
	case PhaseRendering:
		return "rendering"
	case PhaseClosed:
		return "closed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Map is the FIR map component: it owns the loaded topologies, the
// projection selection and the mounted artifact, and re-renders from scratch
// whenever any input changes.
type Map struct {
	state    compose.State
	selector *projection.Selector
	drawer   render.Drawer
	surface  render.Surface

	width, height float64

	result  *compose.Result
	scene   *render.Scene
	renders int
	closed  bool
}

// New creates a map in the no-data phase.
func New(initialProjection string, flightLevel int, drawer render.Drawer) (*Map, error) {
	sel, err := projection.NewSelector(initialProjection)
	if err != nil {
		return nil, err
	}
	if err := checkFlightLevel(flightLevel); err != nil {
		return nil, err
	}
	if drawer == nil {
		return nil, errors.New("no drawer")
	}
	return &Map{
		state:    compose.State{Projection: sel.Current(), FlightLevel: flightLevel},
		selector: sel,
		drawer:   drawer,
	}, nil
}

// SetWorld stores the world topology and renders when ready.
func (m *Map) SetWorld(t *topology.Topology) error {
	if m.closed {
		return ErrClosed
	}
	m.state.World = t
	return m.refresh()
}

// SetFIRs stores the FIR topology and renders when ready.
func (m *Map) SetFIRs(t *topology.Topology) error {
	if m.closed {
		return ErrClosed
	}
	m.state.FIRs = t
	return m.refresh()
}

// SetProjection selects a projection. Unknown names are rejected and leave
// the map untouched.
func (m *Map) SetProjection(name string) error {
	if m.closed {
		return ErrClosed
	}
	changed, err := m.selector.Set(name)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	m.state.Projection = m.selector.Current()
	return m.refresh()
}

// SetFlightLevel changes the flight level the FIRs are filtered at.
func (m *Map) SetFlightLevel(fl int) error {
	if m.closed {
		return ErrClosed
	}
	if err := checkFlightLevel(fl); err != nil {
		return err
	}
	if fl == m.state.FlightLevel {
		return nil
	}
	m.state.FlightLevel = fl
	return m.refresh()
}

// Resize sets the viewport and re-renders.
func (m *Map) Resize(width, height float64) error {
	if m.closed {
		return ErrClosed
	}
	if width == m.width && height == m.height {
		return nil
	}
	m.width, m.height = width, height
	return m.refresh()
}

// Close releases the mounted artifact.
func (m *Map) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.surface.Unmount()
	m.scene, m.result = nil, nil
}

// Phase reports the render state.
func (m *Map) Phase() Phase {
	switch {
	case m.closed:
		return PhaseClosed
	case m.surface.Current() != nil:
		return PhaseRendering
	}
	return PhaseNoData
}

// Projection returns the selected projection.
func (m *Map) Projection() projection.Name { return m.selector.Current() }

// FlightLevel returns the current flight level.
func (m *Map) FlightLevel() int { return m.state.FlightLevel }

// Ready reports whether both topologies are loaded.
func (m *Map) Ready() bool { return m.state.Ready() }

// Loaded counts the topologies loaded so far.
func (m *Map) Loaded() int {
	n := 0
	if m.state.World != nil {
		n++
	}
	if m.state.FIRs != nil {
		n++
	}
	return n
}

// Artifact returns the mounted artifact, nil before the first render.
func (m *Map) Artifact() render.Artifact { return m.surface.Current() }

// Scene returns the scene of the last render.
func (m *Map) Scene() *render.Scene { return m.scene }

// Result returns the derived feature sets of the last render.
func (m *Map) Result() *compose.Result { return m.result }

// Renders counts completed render passes.
func (m *Map) Renders() int { return m.renders }

// Tooltip returns the tooltip under a viewport position.
func (m *Map) Tooltip(x, y float64) (string, bool) {
	if m.scene == nil {
		return "", false
	}
	return m.scene.HitTest(x, y)
}

func (m *Map) refresh() error {
	if !m.state.Ready() || m.width <= 0 || m.height <= 0 {
		return nil
	}

	res, err := compose.Derive(m.state)
	if err != nil {
		return fmt.Errorf("deriving layers: %w", err)
	}
	scene, err := render.Build(res.Layers, m.selector.Projection(), m.width, m.height)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	art, err := m.drawer.Draw(scene)
	if err != nil {
		return fmt.Errorf("drawing %s: %w", scene.Projection, err)
	}

	m.surface.Mount(art)
	m.result, m.scene = res, scene
	m.renders++
	log.WithFields(logrus.Fields{
		"projection": m.state.Projection,
		"fl":         m.state.FlightLevel,
		"firs":       len(res.FIRs.Features),
		"nofirs":     len(res.NoFIRs.Features),
	}).Debug("map rendered")
	return nil
}

func checkFlightLevel(fl int) error {
	if fl < MinFlightLevel || fl > MaxFlightLevel {
		return fmt.Errorf("flight level %d out of range [%d, %d]", fl, MinFlightLevel, MaxFlightLevel)
	}
	return nil
}
