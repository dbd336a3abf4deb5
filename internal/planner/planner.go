// Package planner expands a goal into the fixed catalog of strategy
// scenarios, each with a deterministic four-step schedule.
package planner

import (
	"time"

	"github.com/shopspring/decimal"

	"PortfolioAgent/internal/goalparse"
)

// Profile describes one strategy variant in the fixed catalog.
type Profile struct {
	Name      string
	Rationale string
}

// Catalog is the fixed strategy set, in creation order. Every planning
// invocation creates exactly one scenario per profile.
var Catalog = []Profile{
	{Name: "Conservative", Rationale: "high cash buffer (>=30%), small purchases, no leverage"},
	{Name: "Baseline", Rationale: "broad diversified allocation, fixed periodic contribution, staged buying"},
	{Name: "Aggressive", Rationale: "15-20% cash buffer, adds on drawdowns, 8% stop-loss"},
}

// schedule maps each step's day offset from the planning date to its action.
// The deposit step invests target_value/3; that split is a fixed policy, not
// a tunable.
var schedule = []struct {
	offsetDays int
	action     string
	notes      string
	deposit    bool
}{
	{0, "balance and fee verification", "check broker/fees", false},
	{7, "staged deposit/purchase", "", true},
	{14, "guardrail review", "cash buffer / position sizing <= 15%", false},
	{21, "interim review: accelerate or decelerate", "adjust to rules and sentiment", false},
}

var three = decimal.NewFromInt(3)

// Step is one dated action of a scenario, before persistence.
type Step struct {
	DueDate string
	Action  string
	Amount  decimal.Decimal
	Notes   string
}

// Plan is one scenario ready to be persisted.
type Plan struct {
	Profile Profile
	Steps   []Step
}

// Build expands a goal into one Plan per catalog profile. Step due dates are
// planningDate plus the fixed offsets; the schedule does not vary by profile.
func Build(goalTitle string, targetValue decimal.Decimal, planningDate time.Time) []Plan {
	deposit := targetValue.Div(three)

	plans := make([]Plan, 0, len(Catalog))
	for _, p := range Catalog {
		steps := make([]Step, 0, len(schedule))
		for _, entry := range schedule {
			step := Step{
				DueDate: planningDate.AddDate(0, 0, entry.offsetDays).Format(goalparse.DateLayout),
				Action:  entry.action,
				Amount:  decimal.Zero,
				Notes:   entry.notes,
			}
			if entry.deposit {
				step.Amount = deposit
				step.Notes = "for goal: " + goalTitle
			}
			steps = append(steps, step)
		}
		plans = append(plans, Plan{Profile: p, Steps: steps})
	}
	return plans
}
