package store

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"PortfolioAgent/internal/model"
)

// MemoryStore is an in-memory Store used by tests and as a fallback when no
// database path is configured. It mirrors the SQLite semantics: insertion
// order for accounts, unique guardrail row per user, due-date ordering with
// id tie-breaks for steps.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     int64
	accounts   []model.Account
	goals      []model.Goal
	guardrails []model.Guardrail
	scenarios  []model.Scenario
	steps      []model.ScenarioStep
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) UpsertAccount(userID, name, accType, currency string, balance decimal.Decimal) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for i := range s.accounts {
		if s.accounts[i].UserID == userID && s.accounts[i].Name == name {
			s.accounts[i].Type = accType
			s.accounts[i].Currency = currency
			s.accounts[i].Balance = balance
			s.accounts[i].LastUpdated = now
			return s.accounts[i], nil
		}
	}
	acc := model.Account{
		ID: s.id(), UserID: userID, Name: name, Type: accType,
		Currency: currency, Balance: balance, LastUpdated: now,
	}
	s.accounts = append(s.accounts, acc)
	return acc, nil
}

func (s *MemoryStore) ListAccounts(userID string) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Account
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (s *MemoryStore) EnsureGuardrails(userID string, defaults model.GuardrailPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.guardrails {
		if g.UserID == userID {
			return nil
		}
	}
	s.guardrails = append(s.guardrails, model.Guardrail{
		ID: s.id(), UserID: userID,
		MaxPosPct:      defaults.MaxPosPct,
		CashBufferPct:  defaults.CashBufferPct,
		StopLossPct:    defaults.StopLossPct,
		MaxMDDMonthPct: defaults.MaxMDDMonthPct,
		Notes:          "defaults",
	})
	return nil
}

func (s *MemoryStore) Guardrails(userID string) (model.Guardrail, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.guardrails {
		if g.UserID == userID {
			return g, true, nil
		}
	}
	return model.Guardrail{}, false, nil
}

func (s *MemoryStore) CreateGoal(userID, title string, targetValue decimal.Decimal, targetDate string) (model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := model.Goal{
		ID: s.id(), UserID: userID, Title: title,
		TargetType: "amount", TargetValue: targetValue, TargetDate: targetDate,
	}
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *MemoryStore) LatestGoal(userID string) (model.Goal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest model.Goal
	found := false
	for _, g := range s.goals {
		if g.UserID == userID && g.ID > latest.ID {
			latest = g
			found = true
		}
	}
	return latest, found, nil
}

func (s *MemoryStore) CreateScenario(userID, name, profile, rationale string) (model.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := model.Scenario{ID: s.id(), UserID: userID, Name: name, Profile: profile, Rationale: rationale}
	s.scenarios = append(s.scenarios, sc)
	return sc, nil
}

func (s *MemoryStore) CreateStep(scenarioID int64, dueDate, action string, amount decimal.Decimal, notes string, status model.StepStatus) (model.ScenarioStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.ScenarioStep{
		ID: s.id(), ScenarioID: scenarioID, DueDate: dueDate,
		Action: action, Amount: amount, Notes: notes, Status: status,
	}
	s.steps = append(s.steps, st)
	return st, nil
}

func (s *MemoryStore) ListStepsWithScenarioNames(userID string) ([]model.StepView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[int64]string)
	for _, sc := range s.scenarios {
		if sc.UserID == userID {
			names[sc.ID] = sc.Name
		}
	}

	var owned []model.ScenarioStep
	for _, st := range s.steps {
		if _, ok := names[st.ScenarioID]; ok {
			owned = append(owned, st)
		}
	}
	// Stable sort keeps insertion (id) order within equal due dates.
	sort.SliceStable(owned, func(i, j int) bool { return owned[i].DueDate < owned[j].DueDate })

	views := make([]model.StepView, 0, len(owned))
	for _, st := range owned {
		views = append(views, model.StepView{
			ScenarioName: names[st.ScenarioID],
			DueDate:      st.DueDate,
			Action:       st.Action,
			Status:       st.Status,
		})
	}
	if len(views) == 0 {
		return nil, nil
	}
	return views, nil
}

func (s *MemoryStore) PlanUsers() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var users []string
	for _, sc := range s.scenarios {
		if !seen[sc.UserID] {
			seen[sc.UserID] = true
			users = append(users, sc.UserID)
		}
	}
	sort.Strings(users)
	return users, nil
}

func (s *MemoryStore) Close() error { return nil }
