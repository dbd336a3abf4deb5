// Package engine is the command surface consumed by the transport layer. It
// reads and writes the ledger store and returns typed results; it knows
// nothing about bot frameworks, HTTP, or presentation formatting.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"PortfolioAgent/internal/goalparse"
	"PortfolioAgent/internal/model"
	"PortfolioAgent/internal/planner"
	"PortfolioAgent/internal/report"
	"PortfolioAgent/internal/store"
)

// PreconditionError signals a user-actionable failure such as planning
// without a goal. It is surfaced to the caller, never a crash.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// ErrNoGoal is returned by PlanScenarios when the user has not set a goal.
var ErrNoGoal = &PreconditionError{Msg: "no goal set; define a goal first"}

// DefaultCurrency is the deployment default applied to manual account
// updates. Override at the boundary via WithCurrency.
const DefaultCurrency = "ILS"

// demoAccounts is the first-contact convenience seed, created only when a
// user onboards with zero accounts.
var demoAccounts = []struct {
	name    string
	accType string
}{
	{"MONDAY", "equity"},
	{"S&P 500", "fund"},
	{"BankIndex", "fund"},
}

var demoBalance = decimal.NewFromInt(5000)

// Engine executes inbound commands against the ledger store. Each command is
// an independent, short-lived unit of work; all state lives in the store.
type Engine struct {
	store    store.Store
	currency string
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithCurrency overrides the default currency for manual account updates.
func WithCurrency(currency string) Option {
	return func(e *Engine) { e.currency = currency }
}

// WithClock injects the clock used for goal defaults and planning dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{store: st, currency: DefaultCurrency, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnsureGuardrails seeds the default risk limits iff the user has none.
// Invoked on every inbound command, so idempotency is a correctness
// requirement: it must never reset limits already present.
func (e *Engine) EnsureGuardrails(userID string) error {
	return e.store.EnsureGuardrails(userID, model.DefaultGuardrails)
}

// Onboard handles first contact: guardrail seeding plus a demo account set
// when the user has no accounts yet. Returns the user's accounts.
func (e *Engine) Onboard(userID string) ([]model.Account, error) {
	if err := e.EnsureGuardrails(userID); err != nil {
		return nil, err
	}
	accounts, err := e.store.ListAccounts(userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		return accounts, nil
	}
	for _, d := range demoAccounts {
		if _, err := e.store.UpsertAccount(userID, d.name, d.accType, e.currency, demoBalance); err != nil {
			return nil, err
		}
	}
	return e.store.ListAccounts(userID)
}

// UpdateAccount upserts a manually reported balance. The balance replaces the
// stored one; repeated calls leave exactly one row per (user, name).
func (e *Engine) UpdateAccount(userID, name string, balance decimal.Decimal) (model.Account, error) {
	return e.store.UpsertAccount(userID, name, "manual", e.currency, balance)
}

// ListAccounts returns the user's accounts in insertion order.
func (e *Engine) ListAccounts(userID string) ([]model.Account, error) {
	return e.store.ListAccounts(userID)
}

// SetGoal parses free-form goal text and appends a new goal row with a
// synthesized title. Older goals are retained; the newest row wins.
func (e *Engine) SetGoal(userID, text string) (model.Goal, error) {
	value, date := goalparse.ParseAt(text, e.now())
	title := fmt.Sprintf("short-term goal %d by %s", value.IntPart(), date)
	return e.store.CreateGoal(userID, title, value, date)
}

// PlanScenarios expands the user's current goal into the fixed catalog of
// three scenarios with four steps each. Requires a prior goal: without one it
// returns ErrNoGoal and writes nothing.
func (e *Engine) PlanScenarios(userID string) ([]int64, error) {
	goal, ok, err := e.store.LatestGoal(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoGoal
	}

	plans := planner.Build(goal.Title, goal.TargetValue, e.now())
	ids := make([]int64, 0, len(plans))
	for _, p := range plans {
		sc, err := e.store.CreateScenario(userID, p.Profile.Name, p.Profile.Name, p.Profile.Rationale)
		if err != nil {
			return nil, err
		}
		for _, step := range p.Steps {
			if _, err := e.store.CreateStep(sc.ID, step.DueDate, step.Action, step.Amount, step.Notes, model.StepTodo); err != nil {
				return nil, err
			}
		}
		ids = append(ids, sc.ID)
	}
	return ids, nil
}

// GetStatus returns the time-ordered merge of all the user's scenario steps.
// Pure read; callable at any frequency.
func (e *Engine) GetStatus(userID string) (*report.Status, error) {
	views, err := e.store.ListStepsWithScenarioNames(userID)
	if err != nil {
		return nil, err
	}
	return &report.Status{Steps: views}, nil
}

// GetGuardrails ensures the user's limits exist and returns the fixed policy
// summary. Guardrail editing is not supported.
func (e *Engine) GetGuardrails(userID string) (string, error) {
	if err := e.EnsureGuardrails(userID); err != nil {
		return "", err
	}
	return GuardrailText(model.DefaultGuardrails), nil
}

// GuardrailText renders a guardrail policy as display text.
func GuardrailText(p model.GuardrailPolicy) string {
	return fmt.Sprintf("Risk rules:\n"+
		"• Max position ≤ %.0f%%\n"+
		"• Cash buffer ≥ %.0f%%\n"+
		"• Stop-loss −%.0f%%\n"+
		"• Max monthly drawdown −%.0f%%",
		p.MaxPosPct, p.CashBufferPct, p.StopLossPct, p.MaxMDDMonthPct)
}
