package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"PortfolioAgent/internal/model"
)

// SQLiteStore persists the ledger to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads (status queries, CLI) don't block bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      TEXT NOT NULL,
			name         TEXT NOT NULL,
			type         TEXT NOT NULL DEFAULT '',
			currency     TEXT NOT NULL DEFAULT '',
			balance      TEXT NOT NULL DEFAULT '0',
			last_updated TEXT NOT NULL,
			UNIQUE(user_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id)`,

		`CREATE TABLE IF NOT EXISTS goals (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      TEXT NOT NULL,
			title        TEXT NOT NULL,
			target_type  TEXT NOT NULL DEFAULT 'amount',
			target_value TEXT NOT NULL DEFAULT '0',
			target_date  TEXT NOT NULL,
			notes        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id)`,

		`CREATE TABLE IF NOT EXISTS guardrails (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id           TEXT NOT NULL UNIQUE,
			max_pos_pct       REAL NOT NULL,
			cash_buffer_pct   REAL NOT NULL,
			stop_loss_pct     REAL NOT NULL,
			max_mdd_month_pct REAL NOT NULL,
			notes             TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS scenarios (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   TEXT NOT NULL,
			name      TEXT NOT NULL,
			profile   TEXT NOT NULL,
			rationale TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scenarios_user ON scenarios(user_id)`,

		`CREATE TABLE IF NOT EXISTS scenario_steps (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario_id INTEGER NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
			due_date    TEXT NOT NULL,
			action      TEXT NOT NULL,
			amount      TEXT NOT NULL DEFAULT '0',
			notes       TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'todo'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_scenario ON scenario_steps(scenario_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertAccount(userID, name, accType, currency string, balance decimal.Decimal) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	// Atomic update-or-insert keyed on (user_id, name): concurrent writers
	// resolve last-committed-wins, never a merged or corrupted row.
	_, err := s.db.Exec(`INSERT INTO accounts (user_id, name, type, currency, balance, last_updated)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(user_id, name) DO UPDATE SET
			type=excluded.type,
			currency=excluded.currency,
			balance=excluded.balance,
			last_updated=excluded.last_updated`,
		userID, name, accType, currency, balance.String(), now.Format(time.RFC3339))
	if err != nil {
		return model.Account{}, storageErr("upsert account", err)
	}

	row := s.db.QueryRow(`SELECT id, user_id, name, type, currency, balance, last_updated
		FROM accounts WHERE user_id=? AND name=?`, userID, name)
	acc, err := scanAccount(row)
	if err != nil {
		return model.Account{}, storageErr("read back account", err)
	}
	return acc, nil
}

func (s *SQLiteStore) ListAccounts(userID string) ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT id, user_id, name, type, currency, balance, last_updated
		FROM accounts WHERE user_id=? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr("scan account", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, storageErr("list accounts", rows.Err())
}

func (s *SQLiteStore) EnsureGuardrails(userID string, defaults model.GuardrailPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The UNIQUE(user_id) constraint makes the check-then-insert atomic:
	// under concurrent first-contact calls at most one row survives.
	_, err := s.db.Exec(`INSERT INTO guardrails
		(user_id, max_pos_pct, cash_buffer_pct, stop_loss_pct, max_mdd_month_pct, notes)
		VALUES (?,?,?,?,?,'defaults')
		ON CONFLICT(user_id) DO NOTHING`,
		userID, defaults.MaxPosPct, defaults.CashBufferPct, defaults.StopLossPct, defaults.MaxMDDMonthPct)
	return storageErr("ensure guardrails", err)
}

func (s *SQLiteStore) Guardrails(userID string) (model.Guardrail, bool, error) {
	row := s.db.QueryRow(`SELECT id, user_id, max_pos_pct, cash_buffer_pct, stop_loss_pct, max_mdd_month_pct, notes
		FROM guardrails WHERE user_id=?`, userID)
	var g model.Guardrail
	err := row.Scan(&g.ID, &g.UserID, &g.MaxPosPct, &g.CashBufferPct, &g.StopLossPct, &g.MaxMDDMonthPct, &g.Notes)
	if err == sql.ErrNoRows {
		return model.Guardrail{}, false, nil
	}
	if err != nil {
		return model.Guardrail{}, false, storageErr("read guardrails", err)
	}
	return g, true, nil
}

func (s *SQLiteStore) CreateGoal(userID, title string, targetValue decimal.Decimal, targetDate string) (model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT INTO goals (user_id, title, target_type, target_value, target_date, notes)
		VALUES (?,?,'amount',?,?,'')`,
		userID, title, targetValue.String(), targetDate)
	if err != nil {
		return model.Goal{}, storageErr("create goal", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Goal{}, storageErr("goal id", err)
	}
	return model.Goal{
		ID: id, UserID: userID, Title: title,
		TargetType: "amount", TargetValue: targetValue, TargetDate: targetDate,
	}, nil
}

func (s *SQLiteStore) LatestGoal(userID string) (model.Goal, bool, error) {
	row := s.db.QueryRow(`SELECT id, user_id, title, target_type, target_value, target_date, notes
		FROM goals WHERE user_id=? ORDER BY id DESC LIMIT 1`, userID)
	var g model.Goal
	var value string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetType, &value, &g.TargetDate, &g.Notes)
	if err == sql.ErrNoRows {
		return model.Goal{}, false, nil
	}
	if err != nil {
		return model.Goal{}, false, storageErr("latest goal", err)
	}
	if g.TargetValue, err = decimal.NewFromString(value); err != nil {
		return model.Goal{}, false, storageErr("decode goal value", err)
	}
	return g, true, nil
}

func (s *SQLiteStore) CreateScenario(userID, name, profile, rationale string) (model.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT INTO scenarios (user_id, name, profile, rationale) VALUES (?,?,?,?)`,
		userID, name, profile, rationale)
	if err != nil {
		return model.Scenario{}, storageErr("create scenario", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Scenario{}, storageErr("scenario id", err)
	}
	return model.Scenario{ID: id, UserID: userID, Name: name, Profile: profile, Rationale: rationale}, nil
}

func (s *SQLiteStore) CreateStep(scenarioID int64, dueDate, action string, amount decimal.Decimal, notes string, status model.StepStatus) (model.ScenarioStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT INTO scenario_steps (scenario_id, due_date, action, amount, notes, status)
		VALUES (?,?,?,?,?,?)`,
		scenarioID, dueDate, action, amount.String(), notes, string(status))
	if err != nil {
		return model.ScenarioStep{}, storageErr("create step", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ScenarioStep{}, storageErr("step id", err)
	}
	return model.ScenarioStep{
		ID: id, ScenarioID: scenarioID, DueDate: dueDate,
		Action: action, Amount: amount, Notes: notes, Status: status,
	}, nil
}

func (s *SQLiteStore) ListStepsWithScenarioNames(userID string) ([]model.StepView, error) {
	// ISO dates compare lexicographically, so ORDER BY due_date is
	// chronological; step id breaks ties deterministically.
	rows, err := s.db.Query(`SELECT sc.name, st.due_date, st.action, st.status
		FROM scenarios sc JOIN scenario_steps st ON sc.id = st.scenario_id
		WHERE sc.user_id=? ORDER BY st.due_date ASC, st.id ASC`, userID)
	if err != nil {
		return nil, storageErr("list steps", err)
	}
	defer rows.Close()

	var views []model.StepView
	for rows.Next() {
		var v model.StepView
		var status string
		if err := rows.Scan(&v.ScenarioName, &v.DueDate, &v.Action, &status); err != nil {
			return nil, storageErr("scan step", err)
		}
		v.Status = model.StepStatus(status)
		views = append(views, v)
	}
	return views, storageErr("list steps", rows.Err())
}

func (s *SQLiteStore) PlanUsers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT user_id FROM scenarios ORDER BY user_id`)
	if err != nil {
		return nil, storageErr("plan users", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, storageErr("scan user id", err)
		}
		users = append(users, uid)
	}
	return users, storageErr("plan users", rows.Err())
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var acc model.Account
	var balance, updated string
	if err := row.Scan(&acc.ID, &acc.UserID, &acc.Name, &acc.Type, &acc.Currency, &balance, &updated); err != nil {
		return model.Account{}, err
	}
	var err error
	if acc.Balance, err = decimal.NewFromString(balance); err != nil {
		return model.Account{}, fmt.Errorf("decode balance %q: %w", balance, err)
	}
	if acc.LastUpdated, err = time.Parse(time.RFC3339, updated); err != nil {
		return model.Account{}, fmt.Errorf("decode timestamp %q: %w", updated, err)
	}
	return acc, nil
}
