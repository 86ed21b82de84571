package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// statusWatchModel is the live status view: it refetches the projection
// every second so elapsed minutes tick while the day is open.
type statusWatchModel struct {
	app      *App
	spin     spinner.Model
	view     *app.StatusView
	err      error
	quitting bool
}

type statusTickMsg time.Time

type statusLoadedMsg struct {
	view *app.StatusView
	err  error
}

func newStatusWatchModel(cliApp *App) statusWatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = formatter.StyleBlue
	return statusWatchModel{app: cliApp, spin: s}
}

func (m statusWatchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchStatus(), statusTick())
}

func statusTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (m statusWatchModel) fetchStatus() tea.Cmd {
	cliApp := m.app
	return func() tea.Msg {
		view, err := cliApp.Attendance.GetStatus(context.Background(), app.StatusRequest{
			EmployeeID: cliApp.EmployeeID,
		})
		return statusLoadedMsg{view: view, err: err}
	}
}

func (m statusWatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case statusTickMsg:
		return m, tea.Batch(m.fetchStatus(), statusTick())

	case statusLoadedMsg:
		m.view = msg.view
		m.err = msg.err
		return m, nil

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
}

func (m statusWatchModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.view == nil {
		return m.spin.View() + " loading status...\n"
	}
	return formatter.FormatStatus(m.view) +
		formatter.StyleDim.Render("  refreshing every second, q to quit") + "\n"
}
