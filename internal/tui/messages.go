package tui

import (
	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneSummary Scene = iota
	SceneDeductions
	SceneSuggestions
	SceneHelp
)

var tabScenes = []Scene{SceneSummary, SceneDeductions, SceneSuggestions}

func (s Scene) String() string {
	switch s {
	case SceneSummary:
		return "Summary"
	case SceneDeductions:
		return "Deductions"
	case SceneSuggestions:
		return "Suggestions"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ReportReadyMsg carries the result of a profile load and comparison
type ReportReadyMsg struct {
	Report *domain.TaxReport
	Err    error
}
