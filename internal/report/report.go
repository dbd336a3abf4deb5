// Package report renders the time-ordered merge of a user's scenario steps.
package report

import (
	"fmt"
	"strings"

	"PortfolioAgent/internal/model"
)

// EmptyNotice is returned instead of lines when the user has no steps yet,
// so callers can prompt for plan creation instead of rendering nothing.
const EmptyNotice = "No steps yet. Send 'scenarios' to create a plan."

// Status is the aggregated view of all steps across a user's scenarios,
// sorted ascending by due date.
type Status struct {
	Steps []model.StepView
}

// Empty reports whether the user has no scenario steps at all.
func (s *Status) Empty() bool { return len(s.Steps) == 0 }

// Lines formats each step as "[scenario] due: action — status".
func (s *Status) Lines() []string {
	lines := make([]string, 0, len(s.Steps))
	for _, v := range s.Steps {
		lines = append(lines, Line(v))
	}
	return lines
}

// Line formats a single step view.
func Line(v model.StepView) string {
	return fmt.Sprintf("[%s] %s: %s — %s", v.ScenarioName, v.DueDate, v.Action, v.Status)
}

// Format renders the status for display, substituting the empty-state notice
// when there is nothing to show.
func Format(s *Status) string {
	if s.Empty() {
		return EmptyNotice
	}
	return strings.Join(s.Lines(), "\n")
}
