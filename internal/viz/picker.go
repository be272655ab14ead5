package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/scenario"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var scenarioInfo = map[string]string{
	"solar-system":             "sun, planets and moons",
	"solar-system-long-trails": "three-quarter orbit trails",
	"trappist-1":               "seven rocky worlds",
	"binary-stars":             "two suns, one planet",
	"almanac":                  "planets where they are today",
	"empty":                    "nothing at all",
}

// Picker lists the registry's scenarios and opens the chosen one in a
// live view. Esc in the live view returns to the list.
type Picker struct {
	reg    *scenario.Registry
	opts   Options
	names  []string
	cursor int
	live   *Model
	err    error
	size   *tea.WindowSizeMsg
}

func NewPicker(reg *scenario.Registry, opts Options) Picker {
	return Picker{reg: reg, opts: opts, names: reg.List()}
}

func (p Picker) Init() tea.Cmd { return nil }

// Selected is the scenario under the cursor.
func (p Picker) Selected() string {
	if len(p.names) == 0 {
		return ""
	}
	return p.names[p.cursor]
}

// Live is the open live view, or nil while the menu is shown.
func (p Picker) Live() *Model { return p.live }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.size = &size
	}
	if p.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.live = nil
			return p, tea.ClearScreen
		}
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.open()
	}
	return p, nil
}

func (p Picker) open() (tea.Model, tea.Cmd) {
	scn, err := p.reg.Get(p.Selected())
	if err != nil {
		p.err = err
		return p, nil
	}
	m, err := NewModel(scn, p.opts)
	if err != nil {
		p.err = err
		return p, nil
	}
	if p.size != nil {
		next, _ := m.Update(*p.size)
		m = next.(Model)
	}
	p.err = nil
	p.live = &m
	return p, tea.Batch(tea.ClearScreen, m.Init())
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cyan.Render("  orbitsim") + dim.Render("  n-body orbits in the terminal") + "\n\n")
	for i, name := range p.names {
		cursor, style := "  ", dim
		if i == p.cursor {
			cursor, style = cyan.Render("▸ "), white
		}
		b.WriteString("  " + cursor + style.Render(fmt.Sprintf("%-26s", name)))
		if info, ok := scenarioInfo[name]; ok {
			b.WriteString(dimmer.Render(info))
		}
		b.WriteString("\n")
	}
	if p.err != nil {
		b.WriteString("\n  " + StatusError.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n" + dimmer.Render("  ↑↓ select  enter open  esc back  q quit") + "\n")
	return b.String()
}
