// Package tui is an interactive picker for registered shapes.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/scadsim/internal/shapes"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type level int

const (
	levelModule level = iota
	levelClass
	levelExample
)

// Choice is the shape picked in the browser.
type Choice struct {
	Module  string
	Shape   string
	Example string
}

type model struct {
	level   level
	cursors [3]int

	modules []string
	module  *shapes.Module
	class   *shapes.Class

	choice   *Choice
	quitting bool
}

func newModel() model {
	return model{modules: shapes.ModuleNames()}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "esc", "left", "h":
		if m.level > levelModule {
			m.level--
		}
	case "up", "k":
		if m.cursors[m.level] > 0 {
			m.cursors[m.level]--
		}
	case "down", "j":
		if m.cursors[m.level] < len(m.items())-1 {
			m.cursors[m.level]++
		}
	case "enter", " ", "right", "l":
		return m.enter()
	}
	return m, nil
}

func (m model) enter() (tea.Model, tea.Cmd) {
	items := m.items()
	if len(items) == 0 {
		return m, nil
	}
	name := items[m.cursors[m.level]]

	switch m.level {
	case levelModule:
		mod, err := shapes.LookupModule(name)
		if err != nil {
			return m, nil
		}
		m.module = mod
		m.level = levelClass
		m.cursors[levelClass] = 0
	case levelClass:
		cls, err := m.module.Lookup(name)
		if err != nil {
			return m, nil
		}
		m.class = cls
		m.level = levelExample
		m.cursors[levelExample] = 0
	case levelExample:
		m.choice = &Choice{Module: m.module.Name, Shape: m.class.Name, Example: name}
		return m, tea.Quit
	}
	return m, nil
}

func (m model) items() []string {
	switch m.level {
	case levelModule:
		return m.modules
	case levelClass:
		return m.module.ClassNames()
	case levelExample:
		return m.class.ExampleNames()
	}
	return nil
}

func (m model) describe(name string) string {
	switch m.level {
	case levelModule:
		if mod, err := shapes.LookupModule(name); err == nil {
			return mod.Doc
		}
	case levelClass:
		if cls, err := m.module.Lookup(name); err == nil {
			return cls.Doc
		}
	case levelExample:
		if ex, err := m.class.Example(name); err == nil {
			return ex.Doc
		}
	}
	return ""
}

func (m model) breadcrumb() string {
	parts := []string{"scadsim"}
	if m.level > levelModule {
		parts = append(parts, m.module.Name)
	}
	if m.level > levelClass {
		parts = append(parts, m.class.Name)
	}
	return strings.Join(parts, " › ")
}

func (m model) View() string {
	if m.quitting || m.choice != nil {
		return ""
	}
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("      " + cyan.Render(m.breadcrumb()) + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, name := range m.items() {
		desc := m.describe(name)
		if i == m.cursors[m.level] {
			b.WriteString("      " + magenta.Render("▸ ") + white.Render(fmt.Sprintf("%-18s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-18s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter open   esc back   q quit") + "\n")
	return b.String()
}

// Browse lets the user pick a module, class and example. It returns nil
// when the user quit without choosing.
func Browse(opts ...tea.ProgramOption) (*Choice, error) {
	p := tea.NewProgram(newModel(), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(model).choice, nil
}
