package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/firmap/internal/tui/styles"
)

// LoadingModel is the placeholder shown until both topologies are loaded.
type LoadingModel struct {
	spinner   spinner.Model
	progress  progress.Model
	startTime time.Time
	loaded    int
	total     int
	failures  []string
}

func NewLoadingModel(total int) LoadingModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Globe),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Secondary)),
	)
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	return LoadingModel{
		spinner:   s,
		progress:  p,
		startTime: time.Now(),
		total:     total,
	}
}

func (m LoadingModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetLoaded records how many resources are available.
func (m *LoadingModel) SetLoaded(n int) {
	m.loaded = n
}

// AddFailure records a resource that could not be fetched.
func (m *LoadingModel) AddFailure(resource string, err error) {
	m.failures = append(m.failures, fmt.Sprintf("%s: %v", resource, err))
}

// Failed reports whether any fetch failed.
func (m LoadingModel) Failed() bool { return len(m.failures) > 0 }

func (m LoadingModel) Update(msg tea.Msg) (LoadingModel, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m LoadingModel) View() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Text).Bold(true).Render("Loading map data"))
	b.WriteString("\n\n")

	var pct float64
	if m.total > 0 {
		pct = float64(m.loaded) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(pct))
	b.WriteString("\n")

	elapsed := time.Since(m.startTime).Truncate(time.Second)
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
		Render(fmt.Sprintf("%d/%d topologies • %s", m.loaded, m.total, elapsed)))

	for _, f := range m.failures {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("Error: " + f))
	}
	if m.Failed() {
		b.WriteString("\n")
		b.WriteString(styles.StatusBar.Render("r retry • q quit"))
	}

	return b.String()
}
