package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostbridge/monoshim/shim"
	"github.com/hostbridge/monoshim/variant"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	capStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	backingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type capEntry struct {
	cap       variant.Capability
	backing   string
	available bool
}

type probeModel struct {
	err      error
	cfg      *shim.Config
	shim     *shim.Shim
	path     string
	caps     []capEntry
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateLoading modelState = iota
	stateBrowse
	stateFilter
)

func newProbeModel(cfg *shim.Config) *probeModel {
	ti := textinput.New()
	ti.Placeholder = "filter capabilities"
	ti.Prompt = "/ "
	ti.Width = 40

	return &probeModel{
		cfg:    cfg,
		filter: ti,
		state:  stateLoading,
	}
}

type attachedMsg struct {
	err  error
	shim *shim.Shim
	path string
	caps []capEntry
}

func (m *probeModel) Init() tea.Cmd {
	return m.attachRuntime
}

func (m *probeModel) attachRuntime() tea.Msg {
	s, path, err := attach(m.cfg)
	if err != nil {
		return attachedMsg{err: err}
	}

	caps := s.Capabilities()
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })

	entries := make([]capEntry, 0, len(caps))
	for _, c := range caps {
		backing, _ := s.Backing(c)
		entries = append(entries, capEntry{
			cap:       c,
			backing:   backing.String(),
			available: s.Available(c),
		})
	}

	return attachedMsg{shim: s, path: path, caps: entries}
}

func (m *probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateFilter {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateBrowse {
				m.state = stateFilter
				m.filter.Focus()
				return m, nil
			}

		case "enter":
			if m.state == stateFilter {
				m.state = stateBrowse
				m.filter.Blur()
				return m, nil
			}

		case "esc":
			if m.state == stateFilter {
				m.state = stateBrowse
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			}
		}

	case attachedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.shim = msg.shim
		m.path = msg.path
		m.caps = msg.caps
		m.state = stateBrowse
		m.applyFilter()
	}

	if m.state == stateFilter {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	return m, nil
}

func (m *probeModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, e := range m.caps {
		if needle == "" || strings.Contains(string(e.cap), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *probeModel) View() string {
	if m.err != nil {
		return missingStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.state == stateLoading {
		return "Probing runtime library..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Mono Shim Probe"))
	b.WriteString(fmt.Sprintf(" %s (%s)\n\n", m.path, m.shim.Variant()))

	if m.state == stateFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	for row, idx := range m.visible {
		e := m.caps[idx]
		line := m.formatEntry(e)
		if row == m.selected && m.state == stateBrowse {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("  no matching capabilities"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateFilter {
		b.WriteString(helpStyle.Render("enter apply • esc clear"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • / filter • q quit"))
	}

	return b.String()
}

func (m *probeModel) formatEntry(e capEntry) string {
	name := capStyle.Render(string(e.cap))
	if !e.available {
		name = missingStyle.Render(string(e.cap))
	}
	return fmt.Sprintf("%s %s", name, backingStyle.Render(e.backing))
}

func runInteractive(cfg *shim.Config) error {
	p := tea.NewProgram(newProbeModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
