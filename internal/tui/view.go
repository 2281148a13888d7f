package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/rgehrsitz/taxsavvy/internal/inr"
	"github.com/rgehrsitz/taxsavvy/internal/output"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch {
	case m.err != nil:
		content = ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress esc to dismiss, r to retry.", m.err))
	case m.loading:
		message := m.loadingMessage
		if message == "" {
			message = "Calculating..."
		}
		content = BorderStyle.Render("⠋ " + message)
	case m.currentScene == SceneHelp:
		content = m.renderHelp()
	case m.report == nil:
		content = BorderStyle.Render("No report loaded")
	default:
		switch m.currentScene {
		case SceneDeductions:
			content = m.renderDeductions()
		case SceneSuggestions:
			content = m.renderSuggestions()
		default:
			content = m.renderSummary()
		}
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar, tabs and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		m.renderTabs(),
		"",
		content,
		"",
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("TaxSavvy - Regime Comparison")
	if m.report == nil {
		return title
	}
	year := m.report.Comparison.Old.AssessmentYear
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", SubtitleStyle.Render("AY "+year))
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(tabScenes))
	for i, s := range tabScenes {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == m.currentScene {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatusBar() string {
	bindings := m.keys.shortHelp()
	shortcuts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		shortcuts = append(shortcuts, StatusKeyStyle.Render(h.Key)+" "+h.Desc)
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

func metric(label, value string) string {
	return MetricLabelStyle.Render(label) + MetricValueStyle.Render(value)
}

func (m Model) renderSummary() string {
	cmp := m.report.Comparison

	lines := []string{
		metric("Gross income", inr.Format(cmp.Old.GrossIncome)),
		"",
		TableHeaderStyle.Render(fmt.Sprintf("%-26s%18s%18s", "", "Old regime", "New regime")),
		fmt.Sprintf("%-26s%18s%18s", "Taxable income", inr.Format(cmp.Old.TaxableIncome), inr.Format(cmp.New.TaxableIncome)),
		fmt.Sprintf("%-26s%18s%18s", "Surcharge", inr.Format(cmp.Old.Surcharge), inr.Format(cmp.New.Surcharge)),
		fmt.Sprintf("%-26s%18s%18s", "Cess", inr.Format(cmp.Old.Cess), inr.Format(cmp.New.Cess)),
		fmt.Sprintf("%-26s%18s%18s", "Total tax", inr.Format(cmp.Old.Tax), inr.Format(cmp.New.Tax)),
		"",
		metric("Optimal old regime tax", inr.Format(cmp.OptimalOldTax)),
		MetricLabelStyle.Render("Recommended") + MetricPositiveStyle.Render(
			fmt.Sprintf("%s (saves %s)", output.RegimeName(cmp.OptimalRegime), inr.Format(cmp.Advantage))),
	}

	if cmp.Old.DefaultSlabs || cmp.New.DefaultSlabs {
		lines = append(lines, "", WarningStyle.Render("Requested year not found; built-in "+cmp.Old.AssessmentYear+" tables used"))
	}
	if len(m.report.Recommendations) > 0 {
		lines = append(lines, "")
		for _, r := range m.report.Recommendations {
			lines = append(lines, "• "+r)
		}
	}
	return BorderStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDeductions() string {
	entries := m.report.Comparison.Old.Ledger.Entries()
	if len(entries) == 0 {
		return BorderStyle.Render("No deductions claimed under the old regime")
	}

	rows := []string{TableHeaderStyle.Render(fmt.Sprintf("  %-16s%16s%20s%16s", "Section", "Used", "Limit", "Remaining"))}
	for i, e := range entries {
		remaining := "N/A"
		if e.RemainingCapacity.Valid {
			remaining = inr.Format(e.RemainingCapacity.Decimal)
		}
		limit := e.Limit.String()
		if e.Limit.IsFixed() {
			limit = inr.Format(e.Limit.Amount)
		}
		row := fmt.Sprintf("%-16s%16s%20s%16s", e.Section, inr.Format(e.Used), limit, remaining)
		if i == m.cursor {
			rows = append(rows, SelectedRowStyle.Render("> "+row))
		} else {
			rows = append(rows, "  "+row)
		}
	}

	rows = append(rows, "", m.renderEntryDetail(entries[m.cursor]))
	return BorderStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderEntryDetail(e domain.LedgerEntry) string {
	lines := []string{
		metric(e.Label, ""),
		metric("Taxable income", inr.Format(e.IncomeBefore)+" → "+inr.Format(e.IncomeAfter)),
		metric("Tax saved so far", inr.Format(e.TaxSavedFromUsed)),
		metric("Saving if fully used", inr.Format(e.EstimatedSavingIfFullyUsed)),
	}
	if e.Limit.Note != "" {
		lines = append(lines, SubtitleStyle.Render(e.Limit.Note))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSuggestions() string {
	suggestions := m.report.Suggestions
	if len(suggestions) == 0 {
		return BorderStyle.Render("Every deduction is already fully used")
	}

	rows := make([]string, 0, len(suggestions)+2)
	for i, s := range suggestions {
		saving := ""
		if s.PotentialSaving.IsPositive() {
			saving = " saves " + inr.Format(s.PotentialSaving)
		}
		row := fmt.Sprintf("%d. %s%s", i+1, s.Section, saving)
		if i == m.cursor {
			rows = append(rows, SelectedRowStyle.Render("> "+row))
		} else {
			rows = append(rows, "  "+row)
		}
	}
	rows = append(rows, "", lipgloss.NewStyle().Width(max(20, m.width-8)).Render(suggestions[m.cursor].Action))
	return BorderStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderHelp() string {
	helpText := `TaxSavvy - Old vs New Regime Viewer

KEYBOARD SHORTCUTS:
  1 / 2 / 3      Summary, Deductions, Suggestions
  tab / shift+tab Next / previous tab
  ↑ ↓ / j k      Move the selection
  r              Reload slab tables and recalculate
  ?              Show this help
  esc            Go back
  q / ctrl+c     Quit
`
	return BorderStyle.Render(helpText)
}
