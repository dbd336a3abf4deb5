package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StepStatus is the lifecycle state of a scenario step.
type StepStatus string

const (
	StepTodo    StepStatus = "todo"
	StepDone    StepStatus = "done"
	StepSkipped StepStatus = "skipped"
)

// Account is a single balance holder owned by a user. At most one account
// exists per (user, name); updates replace the balance, they never sum.
type Account struct {
	ID          int64
	UserID      string
	Name        string
	Type        string // "equity", "fund", "manual", ... (open set)
	Currency    string
	Balance     decimal.Decimal
	LastUpdated time.Time
}

// Goal is an append-only savings target. The user's current goal is the row
// with the highest id; older rows are kept but not addressable.
type Goal struct {
	ID          int64
	UserID      string
	Title       string
	TargetType  string // currently always "amount"
	TargetValue decimal.Decimal
	TargetDate  string // ISO calendar date, YYYY-MM-DD
	Notes       string
}

// Guardrail holds a user's risk limits. Zero or one row per user.
type Guardrail struct {
	ID             int64
	UserID         string
	MaxPosPct      float64
	CashBufferPct  float64
	StopLossPct    float64
	MaxMDDMonthPct float64
	Notes          string
}

// GuardrailPolicy is a set of risk limits passed explicitly into the seeding
// operation.
type GuardrailPolicy struct {
	MaxPosPct      float64
	CashBufferPct  float64
	StopLossPct    float64
	MaxMDDMonthPct float64
}

// DefaultGuardrails is seeded once per user on first contact and never
// overwritten by the seeding operation.
var DefaultGuardrails = GuardrailPolicy{
	MaxPosPct:      15.0,
	CashBufferPct:  20.0,
	StopLossPct:    8.0,
	MaxMDDMonthPct: 5.0,
}

// Scenario is one named strategy variant expanding a goal into a dated plan.
// Scenarios are created in batches of three, one per catalog profile, and are
// never updated in place.
type Scenario struct {
	ID        int64
	UserID    string
	Name      string
	Profile   string
	Rationale string
}

// ScenarioStep is one dated action owned by a scenario.
type ScenarioStep struct {
	ID         int64
	ScenarioID int64
	DueDate    string // ISO calendar date, YYYY-MM-DD
	Action     string
	Amount     decimal.Decimal
	Notes      string
	Status     StepStatus
}

// StepView is a scenario step joined with its owning scenario's name, as
// produced by the status query.
type StepView struct {
	ScenarioName string
	DueDate      string
	Action       string
	Status       StepStatus
}
