// Package tui renders the interactive reset flow and styled reports for the
// command line.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ideaplexa/voicetyprd/internal/reset"
)

var (
	titleStyle    = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	quitTextStyle = lipgloss.NewStyle().Margin(1, 0, 2, 4)
	spinnerStyle  = lipgloss.NewStyle().MarginLeft(2).Foreground(lipgloss.Color("205"))
)

// Runner is the slice of the orchestrator the view needs.
type Runner interface {
	Run(ctx context.Context) reset.Result
	Steps() []string
}

type stepItem struct {
	label string
}

func (i stepItem) Title() string       { return i.label }
func (i stepItem) Description() string { return "" }
func (i stepItem) FilterValue() string { return i.label }

type phase int

const (
	phaseConfirm phase = iota
	phaseRunning
	phaseDone
)

type resultMsg struct {
	result reset.Result
}

type model struct {
	ctx      context.Context
	runner   Runner
	list     list.Model
	phase    phase
	result   reset.Result
	ran      bool
	quitting bool
}

func newModel(ctx context.Context, runner Runner) model {
	steps := runner.Steps()
	items := make([]list.Item, len(steps))
	for i, label := range steps {
		items[i] = stepItem{label: label}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	l := list.New(items, delegate, 60, len(items)+8)
	l.Title = "Reset app data? These steps will run:"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	return model{ctx: ctx, runner: runner, list: l}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)

	case resultMsg:
		m.phase = phaseDone
		m.result = msg.result
		m.ran = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.phase != phaseRunning {
				m.quitting = true
				return m, tea.Quit
			}

		case "enter":
			if m.phase == phaseConfirm {
				m.phase = phaseRunning
				runner := m.runner
				ctx := m.ctx
				return m, func() tea.Msg {
					return resultMsg{result: runner.Run(ctx)}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	switch {
	case m.quitting:
		return quitTextStyle.Render("Cancelled.")
	case m.phase == phaseRunning:
		return spinnerStyle.Render("Resetting app data...")
	case m.phase == phaseDone:
		return quitTextStyle.Render(RenderResult(m.result))
	default:
		return "\n" + m.list.View() + "\n" +
			quitTextStyle.Render("enter: reset  q: cancel")
	}
}

// RunInteractive shows the confirmation view, runs the reset if confirmed, and
// returns the result. ran is false when the user cancelled.
func RunInteractive(ctx context.Context, runner Runner) (result reset.Result, ran bool, err error) {
	p := tea.NewProgram(newModel(ctx, runner))
	final, err := p.Run()
	if err != nil {
		return reset.Result{}, false, fmt.Errorf("interactive reset: %w", err)
	}
	m, ok := final.(model)
	if !ok {
		return reset.Result{}, false, fmt.Errorf("interactive reset: unexpected model type")
	}
	return m.result, m.ran, nil
}
