// Package ui renders the live progress of a directory run.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ablpp/internal/driver"
)

type unitStatus uint8

const (
	statusQueued unitStatus = iota
	statusWorking
	statusDone
	statusCached
	statusError
)

var statusLabels = [...]struct {
	text  string
	color lipgloss.Color
}{
	statusQueued:  {"queued", "7"},
	statusWorking: {"working", "6"},
	statusDone:    {"done", "2"},
	statusCached:  {"cached", "4"},
	statusError:   {"error", "1"},
}

func (s unitStatus) String() string { return statusLabels[s].text }

func (s unitStatus) finished() bool { return s >= statusDone }

const statusColumn = 8

type unitRow struct {
	path   string
	status unitStatus
	detail string // число токенов или текст ошибки
}

type progressModel struct {
	title   string
	events  <-chan driver.UnitEvent
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	byPath  map[string]int
	width   int

	finished, failed, cached, tokens int
	done                             bool
}

type eventMsg driver.UnitEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing the units of a
// directory run with their status. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.UnitEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(statusLabels[statusWorking].color)

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		rows:    make([]unitRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	m.bar.Width = m.width - 4
	for i, f := range files {
		m.rows[i] = unitRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for one driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.UnitEvent(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			cmd = tea.Quit
		}
	}
	return m, cmd
}

// apply records a unit event. A second Done for the same unit is ignored.
func (m *progressModel) apply(ev driver.UnitEvent) tea.Cmd {
	i, ok := m.byPath[ev.Path]
	if !ok || m.rows[i].status.finished() {
		return nil
	}
	row := &m.rows[i]
	if !ev.Done {
		row.status = statusWorking
		return nil
	}
	m.finished++
	switch {
	case ev.Err != nil:
		m.failed++
		row.status = statusError
		row.detail = ev.Err.Error()
	case ev.Cached:
		m.cached++
		row.status = statusCached
	default:
		row.status = statusDone
	}
	if ev.Err == nil {
		m.tokens += ev.Tokens
		row.detail = fmt.Sprintf("%d tokens", ev.Tokens)
	}
	return m.bar.SetPercent(float64(m.finished) / float64(len(m.rows)))
}

func (m *progressModel) header() string {
	counts := []string{fmt.Sprintf("%d/%d", m.finished, len(m.rows))}
	if m.cached > 0 {
		counts = append(counts, fmt.Sprintf("%d cached", m.cached))
	}
	if m.failed > 0 {
		counts = append(counts, fmt.Sprintf("%d failed", m.failed))
	}
	h := fmt.Sprintf("%s (%s)", m.title, strings.Join(counts, ", "))
	if m.done {
		return fmt.Sprintf("done: %s, %d tokens", h, m.tokens)
	}
	return m.spinner.View() + " " + h
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, row := range m.rows {
		label := statusLabels[row.status]
		status := lipgloss.NewStyle().Foreground(label.color).Render(fmt.Sprintf("%*s", statusColumn, label.text))
		name := row.path
		if row.detail != "" {
			name += ": " + row.detail
		}
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(name, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens value to width display cells, ending with "..." when
// there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
