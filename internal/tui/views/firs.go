package views

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rendis/firmap/internal/engine/export"
	"github.com/rendis/firmap/internal/engine/fir"
	"github.com/rendis/firmap/internal/tui/styles"
)

type focusArea int

const (
	focusTable focusArea = iota
	focusFilter
)

// FIRsModel lists the FIRs applicable at the current flight level.
type FIRsModel struct {
	flightLevel int
	firs        []fir.Summary
	filtered    []fir.Summary
	features    *geojson.FeatureCollection
	table       table.Model
	filter      textinput.Model
	focus       focusArea
	width       int
	height      int
	exportDir   string
	exportMsg   string
}

// NewFIRsModel shows firs; features is what the e key exports.
func NewFIRsModel(firs []fir.Summary, features *geojson.FeatureCollection, flightLevel int) FIRsModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.CharLimit = 50

	m := FIRsModel{
		flightLevel: flightLevel,
		firs:        firs,
		filtered:    firs,
		features:    features,
		filter:      filter,
		exportDir:   ".",
	}
	m.buildTable(m.filtered)
	return m
}

func (m FIRsModel) Init() tea.Cmd {
	return nil
}

// Filtered returns the rows matching the current filter.
func (m FIRsModel) Filtered() []fir.Summary { return m.filtered }

func (m FIRsModel) Update(msg tea.Msg) (FIRsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		key := msg.String()

		switch m.focus {
		case focusTable:
			switch key {
			case "esc", "q", "f":
				return m, func() tea.Msg { return NavigateToMap{} }
			case "/", "tab":
				m.focus = focusFilter
				m.filter.Focus()
				return m, textinput.Blink
			case "e":
				m.exportCSV()
				return m, nil
			}

		case focusFilter:
			switch key {
			case "esc", "enter", "tab":
				m.focus = focusTable
				m.filter.Blur()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTable:
		m.table, cmd = m.table.Update(msg)
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	}
	return m, cmd
}

func (m *FIRsModel) buildTable(firs []fir.Summary) {
	desigW := 10
	nameW := 30
	typeW := 8
	levelW := 7
	if m.width > 80 {
		nameW += m.width - 80
	}

	columns := []table.Column{
		{Title: "Designator", Width: desigW},
		{Title: "Name", Width: nameW},
		{Title: "Type", Width: typeW},
		{Title: "Lower", Width: levelW},
		{Title: "Upper", Width: levelW},
	}

	rows := make([]table.Row, len(firs))
	for i, f := range firs {
		rows[i] = table.Row{
			truncate(f.Designator, desigW),
			truncate(f.Name, nameW),
			truncate(f.Type, typeW),
			formatLevel(f.Lower),
			formatLevel(f.Upper),
		}
	}

	height := 10
	if m.height > 0 {
		height = m.tableHeight()
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetStyles(tableStyles())
	m.table = t
}

func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	return s
}

func (m FIRsModel) tableHeight() int {
	h := m.height - 9
	if h < 5 {
		h = 5
	}
	return h
}

func (m *FIRsModel) updateLayout() {
	if m.width <= 0 {
		return
	}
	m.buildTable(m.filtered)
}

// normalize removes accents/diacritics and lowercases text for fuzzy matching.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(s))
	return result
}

// SetFilter replaces the filter text.
func (m *FIRsModel) SetFilter(s string) {
	m.filter.SetValue(s)
	m.applyFilter()
}

func (m *FIRsModel) applyFilter() {
	raw := strings.TrimSpace(m.filter.Value())
	if raw == "" {
		m.filtered = m.firs
		m.buildTable(m.filtered)
		return
	}

	words := strings.Fields(normalize(raw))
	m.filtered = nil
	for _, f := range m.firs {
		haystack := normalize(strings.Join([]string{f.Designator, f.Name, f.Type}, " "))
		match := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				match = false
				break
			}
		}
		if match {
			m.filtered = append(m.filtered, f)
		}
	}
	m.buildTable(m.filtered)
}

func (m FIRsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("FIRs at FL%03d: %d", m.flightLevel, len(m.firs))))
	if len(m.filtered) != len(m.firs) {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf(" (showing %d)", len(m.filtered))))
	}
	b.WriteString("\n\n")

	filterStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.focus == focusFilter {
		filterStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	}
	b.WriteString(filterStyle.Render("Filter: "))
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if m.exportMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Render(m.exportMsg))
		b.WriteString("\n")
	}

	statusText := "↑↓ navigate • / filter • e export csv • esc back to map"
	if m.focus == focusFilter {
		statusText = "type to filter • esc back"
	}
	b.WriteString(styles.StatusBar.Render(statusText))

	return b.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func (m *FIRsModel) exportCSV() {
	path := filepath.Join(m.exportDir, fmt.Sprintf("firs_FL%03d.csv", m.flightLevel))
	n, err := export.ToFile(path, export.CSV, m.features, m.flightLevel)
	if err != nil {
		m.exportMsg = fmt.Sprintf("Export error: %v", err)
		return
	}
	m.exportMsg = fmt.Sprintf("Exported %d rows to %s", n, path)
}
