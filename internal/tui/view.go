package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/parsercache/internal/diff"
	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/styles"
)

// Pane is one of the viewer's tabs
type Pane int

const (
	PaneContent Pane = iota
	PaneData
	PaneDiff
)

var paneNames = []string{"Content", "Data", "Diff"}

func (p Pane) String() string {
	if p < 0 || int(p) >= len(paneNames) {
		return "Unknown"
	}
	return paneNames[p]
}

type viewModel struct {
	file     *file.File
	err      error
	title    string
	pane     Pane
	panes    []string
	viewport viewport.Model
}

// InitViewModel creates a viewer for a parsed file. err is the parse outcome;
// when set the viewer shows it instead of the panes.
func InitViewModel(f *file.File, err error, renderWidth int) viewModel {
	vp := viewport.New(renderWidth, 20)
	vp.Style = styles.PaneStyle

	m := viewModel{
		file:     f,
		err:      err,
		title:    "parsed file",
		viewport: vp,
	}
	if f != nil {
		if f.Path != "" {
			m.title = f.Path
		}
		m.panes = []string{
			contentPane(f),
			dataPane(f),
			diffPane(f, renderWidth),
		}
		m.viewport.SetContent(m.panes[PaneContent])
	}
	return m
}

func contentPane(f *file.File) string {
	if f.Content == "" {
		return styles.DimStyle.Render("(empty)")
	}
	return f.Content
}

func dataPane(f *file.File) string {
	if len(f.Data) == 0 {
		return styles.DimStyle.Render("(no data)")
	}
	out, err := yaml.Marshal(f.Data)
	if err != nil {
		return styles.ErrorStyle.Render("✗ " + err.Error())
	}
	return string(out)
}

func diffPane(f *file.File, width int) string {
	out := diff.Render(f, width)
	if out == "" {
		return styles.DimStyle.Render("(no changes)")
	}
	return out
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			return m.show((m.pane + 1) % Pane(len(paneNames))), nil
		case "shift+tab":
			return m.show((m.pane + Pane(len(paneNames)) - 1) % Pane(len(paneNames))), nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewModel) show(p Pane) viewModel {
	m.pane = p
	if m.panes != nil {
		m.viewport.SetContent(m.panes[p])
		m.viewport.GotoTop()
	}
	return m
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ Parse failed: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("q/ctrl+c quit"))
		b.WriteString("\n")
		return b.String()
	}

	tabs := make([]string, len(paneNames))
	for i, name := range paneNames {
		if Pane(i) == m.pane {
			tabs[i] = styles.ActiveTabStyle.Render(name)
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(name)
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("tab next pane • shift+tab previous • ↑/↓ scroll • q quit  %3.f%%", m.viewport.ScrollPercent()*100)))
	b.WriteString("\n")

	return b.String()
}

// RunViewer shows f in a full-screen viewer until the user quits
func RunViewer(f *file.File, err error, renderWidth int) error {
	p := tea.NewProgram(InitViewModel(f, err, renderWidth), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}
