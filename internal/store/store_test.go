package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"PortfolioAgent/internal/model"
)

// Both implementations must satisfy the same contract, so every case runs
// against each of them.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
		require.NoError(t, err)
		defer s.Close()
		fn(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
}

func TestUpsertAccount_ReplacesBalanceKeepsID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		first, err := s.UpsertAccount("u1", "MONDAY", "equity", "ILS", decimal.NewFromInt(5000))
		require.NoError(t, err)

		second, err := s.UpsertAccount("u1", "MONDAY", "manual", "ILS", decimal.NewFromInt(7000))
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID, "upsert must update in place")

		accounts, err := s.ListAccounts("u1")
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		require.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(7000)), "last balance wins")
		require.Equal(t, "manual", accounts[0].Type)
	})
}

func TestListAccounts_InsertionOrderAndScoping(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		for _, name := range []string{"Zeta", "Alpha", "Mid"} {
			_, err := s.UpsertAccount("u1", name, "manual", "ILS", decimal.NewFromInt(1))
			require.NoError(t, err)
		}
		_, err := s.UpsertAccount("u2", "Other", "manual", "ILS", decimal.NewFromInt(1))
		require.NoError(t, err)

		accounts, err := s.ListAccounts("u1")
		require.NoError(t, err)
		require.Len(t, accounts, 3)
		for i, want := range []string{"Zeta", "Alpha", "Mid"} {
			require.Equal(t, want, accounts[i].Name, "order must be insertion order, not sorted")
		}
	})
}

func TestEnsureGuardrails_Idempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		for i := 0; i < 5; i++ {
			require.NoError(t, s.EnsureGuardrails("u1", model.DefaultGuardrails))
		}
		g, ok, err := s.Guardrails("u1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 15.0, g.MaxPosPct)
		require.Equal(t, 20.0, g.CashBufferPct)
		require.Equal(t, 8.0, g.StopLossPct)
		require.Equal(t, 5.0, g.MaxMDDMonthPct)

		// Re-seeding with different values must not overwrite the row.
		require.NoError(t, s.EnsureGuardrails("u1", model.GuardrailPolicy{MaxPosPct: 99}))
		g2, ok, err := s.Guardrails("u1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, g.ID, g2.ID)
		require.Equal(t, 15.0, g2.MaxPosPct)
	})
}

func TestLatestGoal_HighestIDWins(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, ok, err := s.LatestGoal("u1")
		require.NoError(t, err)
		require.False(t, ok)

		_, err = s.CreateGoal("u1", "first", decimal.NewFromInt(1000), "2026-01-01")
		require.NoError(t, err)
		second, err := s.CreateGoal("u1", "second", decimal.NewFromInt(2000), "2026-02-01")
		require.NoError(t, err)

		latest, ok, err := s.LatestGoal("u1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, second.ID, latest.ID)
		require.Equal(t, "second", latest.Title)
		require.True(t, latest.TargetValue.Equal(decimal.NewFromInt(2000)))
	})
}

func TestListStepsWithScenarioNames_OrderedByDueDate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		sc1, err := s.CreateScenario("u1", "Conservative", "Conservative", "")
		require.NoError(t, err)
		sc2, err := s.CreateScenario("u1", "Aggressive", "Aggressive", "")
		require.NoError(t, err)

		// Inserted out of chronological order on purpose.
		_, err = s.CreateStep(sc1.ID, "2026-02-01", "late", decimal.Zero, "", model.StepTodo)
		require.NoError(t, err)
		_, err = s.CreateStep(sc2.ID, "2026-01-01", "early", decimal.Zero, "", model.StepTodo)
		require.NoError(t, err)
		_, err = s.CreateStep(sc1.ID, "2026-01-15", "middle", decimal.Zero, "", model.StepDone)
		require.NoError(t, err)
		// Same due date as "early": id order breaks the tie.
		_, err = s.CreateStep(sc1.ID, "2026-01-01", "early-tie", decimal.Zero, "", model.StepTodo)
		require.NoError(t, err)

		views, err := s.ListStepsWithScenarioNames("u1")
		require.NoError(t, err)
		require.Len(t, views, 4)
		require.Equal(t, "early", views[0].Action)
		require.Equal(t, "early-tie", views[1].Action)
		require.Equal(t, "middle", views[2].Action)
		require.Equal(t, "late", views[3].Action)
		require.Equal(t, "Aggressive", views[0].ScenarioName)
		require.Equal(t, model.StepDone, views[2].Status)
	})
}

func TestListStepsWithScenarioNames_ScopedByUser(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		mine, err := s.CreateScenario("u1", "Baseline", "Baseline", "")
		require.NoError(t, err)
		theirs, err := s.CreateScenario("u2", "Baseline", "Baseline", "")
		require.NoError(t, err)
		_, err = s.CreateStep(mine.ID, "2026-01-01", "mine", decimal.Zero, "", model.StepTodo)
		require.NoError(t, err)
		_, err = s.CreateStep(theirs.ID, "2026-01-01", "theirs", decimal.Zero, "", model.StepTodo)
		require.NoError(t, err)

		views, err := s.ListStepsWithScenarioNames("u1")
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.Equal(t, "mine", views[0].Action)
	})
}

func TestPlanUsers_Distinct(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		for _, uid := range []string{"u1", "u2", "u1"} {
			_, err := s.CreateScenario(uid, "Baseline", "Baseline", "")
			require.NoError(t, err)
		}
		users, err := s.PlanUsers()
		require.NoError(t, err)
		require.Equal(t, []string{"u1", "u2"}, users)
	})
}
