package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioAgent/internal/engine"
	"PortfolioAgent/internal/report"
	"PortfolioAgent/internal/store"
)

var fixedNow = time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)

func newTestRouter() (*Router, *engine.Engine) {
	e := engine.New(store.NewMemoryStore(), engine.WithClock(func() time.Time { return fixedNow }))
	return NewRouter(e), e
}

func TestHandle_StartSeedsDemoAccounts(t *testing.T) {
	r, e := newTestRouter()

	reply := r.Handle("u1", "/start")
	assert.Contains(t, reply, "financial agent")

	accounts, err := e.ListAccounts("u1")
	require.NoError(t, err)
	require.Len(t, accounts, 3)
}

func TestHandle_AccountUpdate(t *testing.T) {
	r, e := newTestRouter()

	reply := r.Handle("u1", "חשבון MONDAY 7000")
	assert.Contains(t, reply, "MONDAY")
	assert.Contains(t, reply, "7000")

	// English form works too.
	reply = r.Handle("u1", "account Cash 123.5")
	assert.Contains(t, reply, "Cash")

	accounts, err := e.ListAccounts("u1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "manual", accounts[0].Type)
	assert.Equal(t, "ILS", accounts[0].Currency)
}

func TestHandle_BalancesEmptyHint(t *testing.T) {
	r, _ := newTestRouter()
	reply := r.Handle("u1", "מאזן")
	assert.Contains(t, reply, "No accounts yet")
}

func TestHandle_StatusEmptyState(t *testing.T) {
	r, _ := newTestRouter()
	reply := r.Handle("u1", "סטטוס")
	assert.Equal(t, report.EmptyNotice, reply)
}

func TestHandle_ScenariosRequireGoal(t *testing.T) {
	r, _ := newTestRouter()
	reply := r.Handle("u1", "תרחישים")
	assert.Contains(t, reply, "Set a goal first")
}

func TestHandle_GoalThenScenariosThenStatus(t *testing.T) {
	r, _ := newTestRouter()

	reply := r.Handle("u1", "יעד 6000 עד 2026-01-31")
	assert.Contains(t, reply, "short-term goal 6000 by 2026-01-31")

	reply = r.Handle("u1", "תרחישים")
	assert.Contains(t, reply, "Created 3 scenarios.")
	assert.Equal(t, 12, strings.Count(reply, "— todo"))

	reply = r.Handle("u1", "סטטוס")
	lines := strings.Split(reply, "\n")
	require.Len(t, lines, 12)
	assert.True(t, strings.HasPrefix(lines[0], "[Conservative] 2025-10-06:"))
}

func TestHandle_SampleGoalShortcut(t *testing.T) {
	r, e := newTestRouter()

	r.Handle("u1", "יעד לדוגמה")
	_, err := e.PlanScenarios("u1")
	require.NoError(t, err, "sample goal should have been recorded")
}

func TestHandle_Guardrails(t *testing.T) {
	r, _ := newTestRouter()
	for _, text := range []string{"חוקי סיכון", "guardrails", "rules"} {
		reply := r.Handle("u1", text)
		assert.Contains(t, reply, "Max position", "text %q should route to guardrails", text)
	}
}

func TestHandle_FallbackHint(t *testing.T) {
	r, _ := newTestRouter()
	reply := r.Handle("u1", "what do I do")
	assert.Equal(t, fallbackHint, reply)
}

func TestHandle_GuardrailsSeededOnEveryMessage(t *testing.T) {
	r, e := newTestRouter()
	r.Handle("u1", "anything at all")

	text, err := e.GetGuardrails("u1")
	require.NoError(t, err)
	assert.Contains(t, text, "Risk rules")
}
