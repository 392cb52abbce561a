package java

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type probeFinishedMsg struct{}

type probeModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
}

func newProbeModel(message string) probeModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5382a1"))

	return probeModel{
		spinner: s,
		message: message,
	}
}

func (m probeModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case probeFinishedMsg:
		m.quitting = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m probeModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf(" %s %s\n", m.spinner.View(), m.message)
}

// WithSpinner runs fn while a spinner with message is shown, and returns fn's error
func WithSpinner(message string, fn func() error) error {
	p := tea.NewProgram(newProbeModel(message))

	var fnErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(50 * time.Millisecond) // Give UI time to start
		fnErr = fn()
		p.Send(probeFinishedMsg{})
	}()

	if _, err := p.Run(); err != nil {
		<-done
		return err
	}
	<-done
	return fnErr
}
