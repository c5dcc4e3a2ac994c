package components

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/firmap/internal/engine/projection"
	"github.com/rendis/firmap/internal/tui/styles"
)

// ProjectionChosenMsg is sent when an entry of the dropdown is picked.
type ProjectionChosenMsg struct {
	Name string
}

type projectionItem projection.Name

func (i projectionItem) FilterValue() string { return string(i) }
func (i projectionItem) Title() string       { return string(i) }
func (i projectionItem) Description() string { return "" }

// Dropdown is the projection picker. It lists every projection in menu
// order and stays closed until Open is called.
type Dropdown struct {
	list list.Model
	open bool
}

func NewDropdown(current projection.Name) Dropdown {
	names := projection.Names()
	items := make([]list.Item, len(names))
	selected := 0
	for i, n := range names {
		items[i] = projectionItem(n)
		if n == current {
			selected = i
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.Primary).
		BorderForeground(styles.Primary)

	l := list.New(items, delegate, 28, len(names)+4)
	l.Title = "Projection"
	l.Styles.Title = styles.Subtitle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Select(selected)

	return Dropdown{list: l}
}

// Open shows the list with current highlighted.
func (d *Dropdown) Open(current projection.Name) {
	for i, it := range d.list.Items() {
		if projection.Name(it.(projectionItem)) == current {
			d.list.Select(i)
			break
		}
	}
	d.open = true
}

func (d *Dropdown) Close() { d.open = false }

func (d Dropdown) IsOpen() bool { return d.open }

// SetHeight limits the list to the available rows.
func (d *Dropdown) SetHeight(h int) {
	if h < 5 {
		h = 5
	}
	if limit := len(projection.Names()) + 4; h > limit {
		h = limit
	}
	d.list.SetSize(28, h)
}

// Selected returns the highlighted projection.
func (d Dropdown) Selected() projection.Name {
	it, ok := d.list.SelectedItem().(projectionItem)
	if !ok {
		return ""
	}
	return projection.Name(it)
}

func (d Dropdown) Update(msg tea.Msg) (Dropdown, tea.Cmd) {
	if !d.open {
		return d, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "p":
			d.open = false
			return d, nil
		case "enter":
			d.open = false
			name := string(d.Selected())
			return d, func() tea.Msg { return ProjectionChosenMsg{Name: name} }
		}
	}
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

func (d Dropdown) View() string {
	if !d.open {
		return ""
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary).
		Render(d.list.View())
}
