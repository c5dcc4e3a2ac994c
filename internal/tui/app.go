package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/rendis/firmap/internal/engine/loader"
	"github.com/rendis/firmap/internal/engine/topology"
	"github.com/rendis/firmap/internal/tui/views"
)

var log = logrus.WithField("module", "tui")

type viewID int

const (
	viewMap viewID = iota
	viewFIRs
)

// Options configures the application.
type Options struct {
	Title       string
	Projection  string
	FlightLevel int
	Loader      *loader.Loader
}

// topologyMsg carries the outcome of one fetch. gen identifies the mount
// that started it.
type topologyMsg struct {
	gen      int
	resource loader.Resource
	topo     *topology.Topology
	err      error
}

// App is the root bubbletea model.
type App struct {
	opts        Options
	currentView viewID
	width       int
	height      int
	gen         int
	ctx         context.Context
	cancel      context.CancelFunc
	mapView     views.MapModel
	firs        views.FIRsModel
}

func NewApp(opts Options) (App, error) {
	if opts.Loader == nil {
		return App{}, errors.New("no loader")
	}
	a := App{opts: opts}
	if err := a.mount(); err != nil {
		return App{}, err
	}
	return a, nil
}

// mount creates a fresh map and a context for its fetches.
func (a *App) mount() error {
	mv, err := views.NewMapModel(a.opts.Title, a.opts.Projection, a.opts.FlightLevel)
	if err != nil {
		return err
	}
	a.gen++
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.mapView = mv
	a.currentView = viewMap
	return nil
}

// unmount cancels pending fetches and releases the map.
func (a *App) unmount() {
	if a.cancel != nil {
		a.cancel()
	}
	a.mapView.Close()
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.mapView.Init(), a.fetchAll())
}

func (a App) fetchAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(loader.Resources))
	for _, r := range loader.Resources {
		cmds = append(cmds, fetchCmd(a.ctx, a.opts.Loader, a.gen, r))
	}
	return tea.Batch(cmds...)
}

func fetchCmd(ctx context.Context, l *loader.Loader, gen int, r loader.Resource) tea.Cmd {
	return func() tea.Msg {
		t, err := l.Fetch(ctx, r)
		return topologyMsg{gen: gen, resource: r, topo: t, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.unmount()
			return a, tea.Quit
		case "q":
			if a.currentView == viewMap && !a.mapView.DropdownOpen() {
				a.unmount()
				return a, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case topologyMsg:
		if msg.gen != a.gen {
			log.WithField("resource", msg.resource).Debug("dropping result of a previous mount")
			return a, nil
		}
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				a.mapView.FetchFailed(msg.resource, msg.err)
			}
			return a, nil
		}
		a.mapView.SetTopology(msg.resource, msg.topo)
		return a, nil
	case views.ReloadMsg:
		a.unmount()
		if err := a.mount(); err != nil {
			log.WithError(err).Error("remount failed")
			return a, tea.Quit
		}
		return a, tea.Batch(a.mapView.Init(), a.fetchAll(), a.sizeCmd())
	case views.NavigateToFIRs:
		a.currentView = viewFIRs
		a.firs = views.NewFIRsModel(a.mapView.Summaries(), a.mapView.Applicable(), a.mapView.FlightLevel())
		return a, tea.Batch(a.firs.Init(), a.sizeCmd())
	case views.NavigateToMap:
		a.currentView = viewMap
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewMap:
		a.mapView, cmd = a.mapView.Update(msg)
	case viewFIRs:
		if _, ok := msg.(tea.WindowSizeMsg); ok {
			a.mapView, _ = a.mapView.Update(msg)
		}
		a.firs, cmd = a.firs.Update(msg)
	}

	return a, cmd
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewMap:
		content = a.mapView.View()
	case viewFIRs:
		content = a.firs.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Left, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI and releases the map when it exits.
func Run(opts Options) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if a, ok := final.(App); ok {
		a.unmount()
	}
	return err
}
