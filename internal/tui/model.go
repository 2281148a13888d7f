package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxsavvy/internal/compare"
	"github.com/rgehrsitz/taxsavvy/internal/config"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene
	keys          keyMap

	// Terminal dimensions
	width  int
	height int

	// Inputs
	profilePath string
	engine      *compare.CompareEngine

	// Loaded report and the selected row in the current table
	report *domain.TaxReport
	cursor int

	err            error
	loading        bool
	loadingMessage string
}

// NewModel creates a viewer for the profile at profilePath
func NewModel(profilePath string, engine *compare.CompareEngine) Model {
	return Model{
		currentScene: SceneSummary,
		keys:         defaultKeyMap(),
		profilePath:  profilePath,
		engine:       engine,
		width:        80,
		height:       24,
		loading:      true,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadReportCmd(m.profilePath, m.engine)
}

// loadReportCmd loads the profile and runs the comparison off the UI loop
func loadReportCmd(path string, engine *compare.CompareEngine) tea.Cmd {
	return func() tea.Msg {
		profile, err := config.NewInputParser().LoadProfile(path)
		if err != nil {
			return ReportReadyMsg{Err: err}
		}
		report, err := engine.Compare(context.Background(), *profile)
		return ReportReadyMsg{Report: report, Err: err}
	}
}

// Report returns the currently displayed report
func (m Model) Report() *domain.TaxReport {
	return m.report
}

// CurrentScene returns the active scene
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// rowCount is the number of selectable rows in the current scene
func (m Model) rowCount() int {
	if m.report == nil {
		return 0
	}
	switch m.currentScene {
	case SceneDeductions:
		return m.report.Comparison.Old.Ledger.Len()
	case SceneSuggestions:
		return len(m.report.Suggestions)
	default:
		return 0
	}
}
