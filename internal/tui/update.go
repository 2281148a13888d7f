package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		m.navigate(msg.Scene)
		return m, nil

	case ReportReadyMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.report = msg.Report
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

func (m *Model) navigate(scene Scene) {
	if scene == m.currentScene {
		return
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
	m.cursor = 0
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.navigate(SceneHelp)

	case key.Matches(msg, m.keys.Back):
		if m.err != nil {
			m.err = nil
			return m, nil
		}
		if m.currentScene == SceneHelp {
			m.navigate(m.previousScene)
		} else {
			m.navigate(SceneSummary)
		}

	case key.Matches(msg, m.keys.Summary):
		m.navigate(SceneSummary)

	case key.Matches(msg, m.keys.Deductions):
		m.navigate(SceneDeductions)

	case key.Matches(msg, m.keys.Suggestions):
		m.navigate(SceneSuggestions)

	case key.Matches(msg, m.keys.NextTab):
		m.navigate(m.stepTab(1))

	case key.Matches(msg, m.keys.PrevTab):
		m.navigate(m.stepTab(-1))

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Reload):
		if m.engine == nil || m.loading {
			return m, nil
		}
		if err := m.engine.Slabs.Reload(); err != nil {
			m.err = err
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Recalculating..."
		return m, loadReportCmd(m.profilePath, m.engine)
	}

	return m, nil
}

// stepTab moves through the tab scenes, wrapping at both ends
func (m Model) stepTab(delta int) Scene {
	current := 0
	for i, s := range tabScenes {
		if s == m.currentScene {
			current = i
		}
	}
	next := (current + delta + len(tabScenes)) % len(tabScenes)
	return tabScenes[next]
}
