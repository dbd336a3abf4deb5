package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"PortfolioAgent/internal/model"
)

// StorageError wraps an I/O or connection failure from the backing database.
// The engine does not retry; the error propagates to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Store is the durable ledger over accounts, goals, guardrails, scenarios and
// scenario steps, all scoped by an opaque user id. Implementations must keep
// per-row updates atomic: concurrent upserts for the same (user, name) resolve
// last-committed-wins, and guardrail seeding leaves at most one row per user.
type Store interface {
	// UpsertAccount inserts or updates the account keyed on (userID, name),
	// replacing the balance and stamping last_updated with the call time.
	UpsertAccount(userID, name, accType, currency string, balance decimal.Decimal) (model.Account, error)

	// ListAccounts returns the user's accounts in insertion order.
	ListAccounts(userID string) ([]model.Account, error)

	// EnsureGuardrails inserts the given limits iff the user has no guardrail
	// row yet. Safe to call on every request.
	EnsureGuardrails(userID string, defaults model.GuardrailPolicy) error

	// Guardrails returns the user's guardrail row, if present.
	Guardrails(userID string) (model.Guardrail, bool, error)

	// CreateGoal always inserts a new goal row; goals are append-only.
	CreateGoal(userID, title string, targetValue decimal.Decimal, targetDate string) (model.Goal, error)

	// LatestGoal returns the goal with the highest id for the user.
	LatestGoal(userID string) (model.Goal, bool, error)

	CreateScenario(userID, name, profile, rationale string) (model.Scenario, error)
	CreateStep(scenarioID int64, dueDate, action string, amount decimal.Decimal, notes string, status model.StepStatus) (model.ScenarioStep, error)

	// ListStepsWithScenarioNames joins scenarios and steps for the user,
	// ordered ascending by due date with id order breaking ties.
	ListStepsWithScenarioNames(userID string) ([]model.StepView, error)

	// PlanUsers returns the distinct ids of users that own scenarios.
	PlanUsers() ([]string, error)

	Close() error
}
