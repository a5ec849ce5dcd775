package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tubeserve/tubeserve/internal/extractor"
	"github.com/tubeserve/tubeserve/internal/media"
)

var (
	probeInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	probeDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	probeErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// probeState holds the result shared between the probe goroutine and the TUI.
type probeState struct {
	mu     sync.RWMutex
	done   bool
	err    error
	result *media.VideoInfo
}

func (s *probeState) setDone(result *media.VideoInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.result = result
}

func (s *probeState) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.done = true
}

func (s *probeState) get() (bool, error, *media.VideoInfo) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.err, s.result
}

type probeTickMsg time.Time

type probeModel struct {
	spinner spinner.Model
	url     string
	state   *probeState
}

func newProbeModel(url string, state *probeState) probeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return probeModel{spinner: s, url: url, state: state}
}

func probeTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return probeTickMsg(t)
	})
}

func (m probeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, probeTickCmd())
}

func (m probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case probeTickMsg:
		done, _, _ := m.state.get()
		if done {
			return m, tea.Quit
		}
		return m, probeTickCmd()
	}

	return m, nil
}

func (m probeModel) View() string {
	done, err, result := m.state.get()

	if err != nil {
		return fmt.Sprintf("\n  %s Extraction failed: %v\n\n",
			probeErrStyle.Render("✗"),
			err,
		)
	}

	if done && result != nil {
		return fmt.Sprintf("\n  %s Extracted %s  |  Formats: %d\n\n",
			probeDoneStyle.Render("✓"),
			probeInfoStyle.Render(result.Title),
			len(result.Formats),
		)
	}

	return fmt.Sprintf("\n  %s Extracting: %s\n\n",
		m.spinner.View(),
		probeInfoStyle.Render(m.url),
	)
}

// probeWithSpinner probes the URL behind a spinner when stdout is a terminal,
// falling back to a plain call for pipes and scripts.
func probeWithSpinner(ext extractor.Extractor, url string) (*media.VideoInfo, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ext.Probe(context.Background(), url)
	}

	state := &probeState{}
	go func() {
		result, err := ext.Probe(context.Background(), url)
		if err != nil {
			state.setError(err)
		} else {
			state.setDone(result)
		}
	}()

	model := newProbeModel(url, state)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, err
	}

	done, probeErr, result := state.get()
	if probeErr != nil {
		return nil, probeErr
	}
	if !done {
		return nil, fmt.Errorf("extraction cancelled")
	}

	return result, nil
}
