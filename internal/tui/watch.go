package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/parsercache/internal/styles"
)

const recentLimit = 10

// ParsedMsg reports one parse made by the watcher
type ParsedMsg struct {
	Path     string
	DataKeys int
	Err      error
	At       time.Time
}

// TickMsg triggers a periodic refresh
type TickMsg time.Time

type watchModel struct {
	dirs      []string
	startTime time.Time
	parsed    int
	failed    int
	recent    []ParsedMsg
}

// InitWatchModel creates a dashboard for a running watcher
func InitWatchModel(dirs []string) watchModel {
	return watchModel{
		dirs:      dirs,
		startTime: time.Now(),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case TickMsg:
		return m, tick()

	case ParsedMsg:
		if msg.Err != nil {
			m.failed++
		} else {
			m.parsed++
		}
		m.recent = append([]ParsedMsg{msg}, m.recent...)
		if len(m.recent) > recentLimit {
			m.recent = m.recent[:recentLimit]
		}
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("parsercache watch"))
	b.WriteString("\n\n")

	b.WriteString(styles.KeyStyle.Render("Watching"))
	b.WriteString("\n")
	for _, dir := range m.dirs {
		b.WriteString(fmt.Sprintf("  %s\n", styles.ValueStyle.Render(dir)))
	}
	uptime := time.Since(m.startTime).Round(time.Second)
	b.WriteString(fmt.Sprintf("  Uptime: %s\n", styles.ValueStyle.Render(uptime.String())))
	b.WriteString("\n")

	b.WriteString(styles.KeyStyle.Render("Parses"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n",
		styles.SuccessStyle.Render(fmt.Sprintf("● %d ok", m.parsed)),
		styles.ErrorStyle.Render(fmt.Sprintf("✗ %d failed", m.failed))))
	b.WriteString("\n")

	b.WriteString(styles.KeyStyle.Render("Recent"))
	b.WriteString("\n")
	if len(m.recent) == 0 {
		b.WriteString(styles.HelpStyle.Render("  Waiting for changes..."))
		b.WriteString("\n")
	}
	for _, p := range m.recent {
		stamp := styles.DimStyle.Render(p.At.Format(time.TimeOnly))
		if p.Err != nil {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", stamp, styles.ErrorStyle.Render("✗ "+p.Path), styles.ErrorStyle.Render(p.Err.Error())))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", stamp, styles.SuccessStyle.Render("✓ "+p.Path), styles.DimStyle.Render(fmt.Sprintf("(%d data keys)", p.DataKeys))))
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render("q quit"))
	b.WriteString("\n")

	return b.String()
}

// tick returns a command that sends a TickMsg after a second
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// RunWatch shows the dashboard until the user quits. start receives a send
// function for ParsedMsg values and is called before the dashboard starts.
func RunWatch(dirs []string, start func(send func(ParsedMsg))) error {
	p := tea.NewProgram(InitWatchModel(dirs))
	start(func(msg ParsedMsg) {
		p.Send(msg)
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
