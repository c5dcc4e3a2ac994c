package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/rendis/firmap/internal/engine/fir"
	"github.com/rendis/firmap/internal/engine/loader"
	"github.com/rendis/firmap/internal/engine/topology"
	"github.com/rendis/firmap/internal/engine/widget"
	"github.com/rendis/firmap/internal/tui/components"
	"github.com/rendis/firmap/internal/tui/styles"
)

var log = logrus.WithField("module", "tui")

// FlightLevelStep is the change applied by the +/- keys.
const FlightLevelStep = 10

// rows taken by the header and the status bar
const chromeRows = 4

// MapModel shows the title, the projection dropdown and the braille map.
// The widget lives behind a pointer so it survives bubbletea's value copies.
type MapModel struct {
	title    string
	widget   *widget.Map
	drawer   *components.BrailleDrawer
	dropdown components.Dropdown
	loading  LoadingModel
	cx, cy   int
	width    int
	height   int
	err      error
}

func NewMapModel(title, initialProjection string, flightLevel int) (MapModel, error) {
	drawer := &components.BrailleDrawer{}
	w, err := widget.New(initialProjection, flightLevel, drawer)
	if err != nil {
		return MapModel{}, err
	}
	return MapModel{
		title:    title,
		widget:   w,
		drawer:   drawer,
		dropdown: components.NewDropdown(w.Projection()),
		loading:  NewLoadingModel(len(loader.Resources)),
	}, nil
}

func (m MapModel) Init() tea.Cmd {
	return m.loading.Init()
}

// SetTopology hands a fetched topology to the map.
func (m *MapModel) SetTopology(r loader.Resource, t *topology.Topology) {
	var err error
	switch r {
	case loader.World:
		err = m.widget.SetWorld(t)
	case loader.FIRs:
		err = m.widget.SetFIRs(t)
	}
	m.loading.SetLoaded(m.widget.Loaded())
	m.setErr(err)
	m.centerCrosshair()
}

// FetchFailed keeps the placeholder up and shows the failure.
func (m *MapModel) FetchFailed(r loader.Resource, err error) {
	log.WithError(err).WithField("resource", r).Error("fetch failed")
	m.loading.AddFailure(string(r), err)
}

// Close releases the mounted map.
func (m *MapModel) Close() {
	m.widget.Close()
}

// Ready reports whether the map has been rendered.
func (m MapModel) Ready() bool {
	return m.widget.Phase() == widget.PhaseRendering
}

// FlightLevel is the level the FIRs are filtered at.
func (m MapModel) FlightLevel() int { return m.widget.FlightLevel() }

// Applicable returns the features selected at the current flight level.
func (m MapModel) Applicable() *geojson.FeatureCollection {
	res := m.widget.Result()
	if res == nil {
		return nil
	}
	return res.Applicable
}

// Summaries lists the applicable features in source order.
func (m MapModel) Summaries() []fir.Summary {
	return fir.Summaries(m.Applicable())
}

// Tooltip returns the tooltip under the crosshair.
func (m MapModel) Tooltip() (string, bool) {
	return m.widget.Tooltip(
		float64(m.cx*components.CellDotsX+components.CellDotsX/2),
		float64(m.cy*components.CellDotsY+components.CellDotsY/2),
	)
}

func (m MapModel) Update(msg tea.Msg) (MapModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dropdown.SetHeight(m.mapRows())
		m.setErr(m.widget.Resize(components.ViewportFor(m.width, m.mapRows())))
		m.centerCrosshair()
		return m, nil

	case components.ProjectionChosenMsg:
		m.setErr(m.widget.SetProjection(msg.Name))
		return m, nil

	case tea.KeyMsg:
		if m.dropdown.IsOpen() {
			var cmd tea.Cmd
			m.dropdown, cmd = m.dropdown.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "p":
			m.dropdown.Open(m.widget.Projection())
		case "+", "=":
			m.stepFlightLevel(FlightLevelStep)
		case "-", "_":
			m.stepFlightLevel(-FlightLevelStep)
		case "up", "k":
			m.moveCrosshair(0, -1)
		case "down", "j":
			m.moveCrosshair(0, 1)
		case "left", "h":
			m.moveCrosshair(-1, 0)
		case "right", "l":
			m.moveCrosshair(1, 0)
		case "f":
			if m.Ready() {
				return m, func() tea.Msg { return NavigateToFIRs{} }
			}
		case "r":
			if !m.widget.Ready() {
				return m, func() tea.Msg { return ReloadMsg{} }
			}
		}
		return m, nil
	}

	if !m.widget.Ready() {
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *MapModel) stepFlightLevel(delta int) {
	fl := m.widget.FlightLevel() + delta
	if fl < widget.MinFlightLevel {
		fl = widget.MinFlightLevel
	}
	if fl > widget.MaxFlightLevel {
		fl = widget.MaxFlightLevel
	}
	m.setErr(m.widget.SetFlightLevel(fl))
}

func (m *MapModel) moveCrosshair(dx, dy int) {
	m.cx = clamp(m.cx+dx, 0, m.width-1)
	m.cy = clamp(m.cy+dy, 0, m.mapRows()-1)
}

func (m *MapModel) centerCrosshair() {
	if m.cx == 0 && m.cy == 0 {
		m.cx, m.cy = m.width/2, m.mapRows()/2
	}
	m.moveCrosshair(0, 0)
}

func (m *MapModel) setErr(err error) {
	if err != nil {
		log.WithError(err).Warn("map update failed")
	}
	m.err = err
}

func (m MapModel) mapRows() int {
	rows := m.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m MapModel) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case !m.widget.Ready():
		b.WriteString(lipgloss.Place(m.width, m.mapRows(), lipgloss.Center, lipgloss.Center, m.loading.View()))
	case m.dropdown.IsOpen():
		b.WriteString(lipgloss.Place(m.width, m.mapRows(), lipgloss.Right, lipgloss.Top, m.dropdown.View()))
	default:
		if c, ok := m.widget.Artifact().(*components.Canvas); ok {
			b.WriteString(c.View(m.cx, m.cy))
		} else {
			b.WriteString(strings.Repeat("\n", m.mapRows()-1))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m MapModel) header() string {
	title := styles.Title.UnsetMarginBottom().Render(m.title)
	right := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Label.UnsetWidth().Render("Projection "),
		styles.ActiveItem.Render(string(m.widget.Projection())+" ▾"),
		styles.Label.UnsetWidth().Render(fmt.Sprintf("   FL%03d", m.widget.FlightLevel())),
	)
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m MapModel) statusLine() string {
	if m.err != nil {
		return styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err))
	}
	var tip string
	if t, ok := m.Tooltip(); ok {
		tip = styles.Value.Render(t) + "  "
	}
	var help string
	switch {
	case m.dropdown.IsOpen():
		help = "↑↓ choose • enter select • esc close"
	case m.widget.Ready():
		help = "p projection • +/- flight level • ←↑↓→ move • f FIR list • q quit"
	default:
		help = "q quit"
	}
	return tip + styles.StatusBar.UnsetMarginTop().Render(help)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DropdownOpen reports whether the projection list is shown.
func (m MapModel) DropdownOpen() bool { return m.dropdown.IsOpen() }
