// Package bot maps free-form chat text onto engine commands and renders
// replies. The Hebrew keywords match the original deployment; English
// equivalents work too.
package bot

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"PortfolioAgent/internal/engine"
	"PortfolioAgent/internal/report"
)

const (
	greeting = "Hi! I'm your 3–4 month financial agent 🧭\n" +
		"Examples: 'יעד 6000 עד 2026-01-31' • 'תרחישים' • 'סטטוס' • 'חוקי סיכון' • 'מאזן'\n" +
		"To update a balance: 'חשבון MONDAY 7000'"
	helpText = "Commands: /start /help plus free text " +
		"(יעד/goal, תרחישים/scenarios, סטטוס/status, חוקי סיכון/rules, מאזן/balance, חשבון/account ...)"
	fallbackHint = "Hi 🙌 Try: יעד / תרחישים / סטטוס / חוקי סיכון / מאזן / חשבון ..."
	storageHint  = "Something went wrong, please try again later."

	// sampleGoal is what the "יעד לדוגמה" keyboard button expands to.
	sampleGoal = "יעד 6000 עד 2026-01-31"
)

var accountPattern = regexp.MustCompile(`^(?:חשבון|account)\s+(.+?)\s+(\d+(?:\.\d+)?)\s*$`)

// Router dispatches one inbound message at a time. Guardrails are re-seeded
// on every message, matching the onboarding contract.
type Router struct {
	engine *engine.Engine
}

func NewRouter(e *engine.Engine) *Router { return &Router{engine: e} }

// Handle routes a single message and returns the reply text.
func (r *Router) Handle(userID, text string) string {
	text = strings.TrimSpace(text)

	if err := r.engine.EnsureGuardrails(userID); err != nil {
		log.Printf("[ERROR] ensure guardrails for %s: %v", userID, err)
		return storageHint
	}

	switch text {
	case "/start":
		return r.start(userID)
	case "/help":
		return helpText
	}

	if text == "יעד לדוגמה" {
		text = sampleGoal
	}

	switch {
	case containsAny(text, "חוקי", "guard", "סיכון", "rules"):
		return r.guardrails(userID)
	case text == "מאזן" || text == "יתרות" || strings.EqualFold(text, "balance"):
		return r.balances(userID)
	case accountPattern.MatchString(text):
		return r.updateAccount(userID, text)
	case containsAny(text, "סטטוס", "מצב", "status"):
		return r.status(userID)
	case containsAny(text, "תרחיש", "scenar"):
		return r.plan(userID)
	case containsAny(text, "יעד", "מטרה", "goal"):
		return r.setGoal(userID, text)
	}

	return fallbackHint
}

func (r *Router) start(userID string) string {
	if _, err := r.engine.Onboard(userID); err != nil {
		log.Printf("[ERROR] onboard %s: %v", userID, err)
		return storageHint
	}
	return greeting
}

func (r *Router) guardrails(userID string) string {
	text, err := r.engine.GetGuardrails(userID)
	if err != nil {
		log.Printf("[ERROR] guardrails for %s: %v", userID, err)
		return storageHint
	}
	return text
}

func (r *Router) balances(userID string) string {
	accounts, err := r.engine.ListAccounts(userID)
	if err != nil {
		log.Printf("[ERROR] list accounts for %s: %v", userID, err)
		return storageHint
	}
	if len(accounts) == 0 {
		return "No accounts yet. Update one: 'חשבון MONDAY 7000'"
	}
	var b strings.Builder
	b.WriteString("Balances:")
	for _, acc := range accounts {
		b.WriteString(fmt.Sprintf("\n• %s: %s %s", acc.Name, acc.Balance.StringFixed(0), acc.Currency))
	}
	return b.String()
}

func (r *Router) updateAccount(userID, text string) string {
	m := accountPattern.FindStringSubmatch(text)
	name := strings.TrimSpace(m[1])
	balance, err := decimal.NewFromString(m[2])
	if err != nil {
		return fallbackHint
	}
	acc, err := r.engine.UpdateAccount(userID, name, balance)
	if err != nil {
		log.Printf("[ERROR] update account for %s: %v", userID, err)
		return storageHint
	}
	return fmt.Sprintf("Updated: %s = %s %s.", acc.Name, acc.Balance.StringFixed(0), acc.Currency)
}

func (r *Router) status(userID string) string {
	status, err := r.engine.GetStatus(userID)
	if err != nil {
		log.Printf("[ERROR] status for %s: %v", userID, err)
		return storageHint
	}
	return report.Format(status)
}

func (r *Router) plan(userID string) string {
	ids, err := r.engine.PlanScenarios(userID)
	if err != nil {
		var pre *engine.PreconditionError
		if errors.As(err, &pre) {
			return "Set a goal first, e.g. 'יעד 6000 עד 2026-01-31'."
		}
		log.Printf("[ERROR] plan scenarios for %s: %v", userID, err)
		return storageHint
	}
	status, err := r.engine.GetStatus(userID)
	if err != nil {
		log.Printf("[ERROR] status after plan for %s: %v", userID, err)
		return storageHint
	}
	return fmt.Sprintf("Created %d scenarios.\n%s", len(ids), report.Format(status))
}

func (r *Router) setGoal(userID, text string) string {
	goal, err := r.engine.SetGoal(userID, text)
	if err != nil {
		log.Printf("[ERROR] set goal for %s: %v", userID, err)
		return storageHint
	}
	return fmt.Sprintf("Goal recorded: %s\nSend 'תרחישים' to create a plan.", goal.Title)
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
