package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/parsercache/internal/batch"
	"github.com/gerunddev/parsercache/internal/styles"
)

// batchModel shows a spinner while a batch run is in progress
type batchModel struct {
	spinner  spinner.Model
	dir      string
	complete bool
	result   *batch.Result
	err      error
}

// BatchMsg is sent when the batch run completes
type BatchMsg struct {
	Result *batch.Result
	Err    error
}

// InitBatchModel creates a new batch progress model
func InitBatchModel(dir string) batchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return batchModel{
		spinner: s,
		dir:     dir,
	}
}

func (m batchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case BatchMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m batchModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s Parsing %s...\n\n", m.spinner.View(), m.dir)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Batch failed: "+m.err.Error()) + "\n"
	}

	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", m.result.EndTime.Sub(m.result.StartTime).Round(time.Millisecond)))

	if m.result.FilesProcessed == 0 && len(m.result.Errors) == 0 {
		return styles.SuccessStyle.Render(fmt.Sprintf("✓ Nothing to parse (%d unchanged)", m.result.Skipped)) + "\n" + took + "\n"
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Parsed %d file(s)", m.result.FilesProcessed))
	if m.result.Skipped > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d unchanged", m.result.Skipped))
	}
	if len(m.result.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(m.result.Errors)))
		for _, err := range m.result.Errors {
			msg += "\n  " + styles.ErrorStyle.Render("✗ "+err.Error())
		}
	}

	return msg + "\n" + took + "\n"
}

// RunBatch runs fn behind a spinner and returns its result once it finishes
func RunBatch(dir string, fn func() (*batch.Result, error)) (*batch.Result, error) {
	p := tea.NewProgram(InitBatchModel(dir))

	go func() {
		result, err := fn()
		p.Send(BatchMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}

	m, ok := final.(batchModel)
	if !ok || !m.complete {
		return nil, fmt.Errorf("interrupted")
	}
	return m.result, m.err
}
