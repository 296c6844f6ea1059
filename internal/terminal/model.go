package terminal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const titleText = "lyroverlay"

type paneState struct {
	handle string
	index  int
	titled bool
	frame  string
	dock   Dock
	target string
}

type Model struct {
	panes    []*paneState
	width    int
	height   int
	quitting bool
}

func NewModel() Model {
	return Model{}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case paneAddedMsg:
		m.panes = append(m.panes, &paneState{handle: msg.handle, index: msg.index, titled: msg.titled})
		return m, nil

	case frameMsg:
		if p := m.find(msg.handle); p != nil {
			p.frame = msg.frame
		}
		return m, nil

	case dockMsg:
		if p := m.find(msg.handle); p != nil {
			p.dock = msg.dock
			p.target = msg.target
		}
		return m, nil
	}

	return m, nil
}

func (m Model) find(handle string) *paneState {
	for _, p := range m.panes {
		if p.handle == handle {
			return p
		}
	}
	return nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	if len(m.panes) == 0 {
		wait := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true).Render("awaiting lyrics")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, wait)
	}

	var floating, desktop, taskbar []string
	for _, p := range m.panes {
		rendered := m.renderPane(p)
		switch p.dock {
		case DockDesktop:
			desktop = append(desktop, rendered)
		case DockTaskbar:
			taskbar = append(taskbar, rendered)
		default:
			floating = append(floating, rendered)
		}
	}

	top := stack(floating, width)
	bottom := stack(taskbar, width)

	middleHeight := height - blockHeight(top) - blockHeight(bottom)
	if middleHeight < 0 {
		middleHeight = 0
	}
	middle := lipgloss.Place(width, middleHeight, lipgloss.Center, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, desktop...))

	var blocks []string
	for _, b := range []string{top, middle, bottom} {
		if b != "" {
			blocks = append(blocks, b)
		}
	}
	return strings.Join(blocks, "\n")
}

// renderPane draws the first window with a title bar; later windows are
// borderless.
func (m Model) renderPane(p *paneState) string {
	if !p.titled {
		return p.frame
	}

	title := titleText
	if p.target != "" {
		title += " · " + p.target
	}
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Bold(true)

	body := lipgloss.JoinVertical(lipgloss.Center, titleStyle.Render(title), p.frame)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 2).
		Render(body)
}

func stack(rows []string, width int) string {
	if len(rows) == 0 {
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func blockHeight(block string) int {
	if block == "" {
		return 0
	}
	return lipgloss.Height(block)
}
