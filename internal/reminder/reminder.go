// Package reminder sends each planning user a daily notice of the scenario
// steps still open for the day. It lives entirely in the transport layer;
// the engine itself stays request-triggered.
package reminder

import (
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"PortfolioAgent/internal/goalparse"
	"PortfolioAgent/internal/model"
	"PortfolioAgent/internal/report"
	"PortfolioAgent/internal/store"
)

// Notify delivers one reminder message to a user's chat.
type Notify func(userID, text string) error

// Reminder runs the due-step notice on a cron schedule.
type Reminder struct {
	cron   *cron.Cron
	store  store.Store
	notify Notify
}

func New(st store.Store, notify Notify) *Reminder {
	return &Reminder{
		cron:   cron.New(cron.WithSeconds()),
		store:  st,
		notify: notify,
	}
}

// Register adds the notice job. An empty spec disables the reminder.
func (r *Reminder) Register(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := r.cron.AddFunc(spec, r.RunOnce); err != nil {
		return err
	}
	return nil
}

func (r *Reminder) Start() {
	r.cron.Start()
	log.Println("[INFO] reminder started")
}

func (r *Reminder) Stop() {
	r.cron.Stop()
	log.Println("[INFO] reminder stopped")
}

// RunOnce sends the due-today notice to every user that has scenarios.
func (r *Reminder) RunOnce() {
	today := time.Now().Format(goalparse.DateLayout)

	users, err := r.store.PlanUsers()
	if err != nil {
		log.Printf("[ERROR] reminder: list plan users: %v", err)
		return
	}

	for _, userID := range users {
		views, err := r.store.ListStepsWithScenarioNames(userID)
		if err != nil {
			log.Printf("[ERROR] reminder: steps for %s: %v", userID, err)
			continue
		}
		var lines []string
		for _, v := range views {
			if v.DueDate == today && v.Status == model.StepTodo {
				lines = append(lines, report.Line(v))
			}
		}
		if len(lines) == 0 {
			continue
		}
		if err := r.notify(userID, "Due today:\n"+strings.Join(lines, "\n")); err != nil {
			log.Printf("[ERROR] reminder: notify %s: %v", userID, err)
		}
	}
}
