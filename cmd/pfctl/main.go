// pfctl operates the ledger from the command line, against the same SQLite
// database the bot uses. Handy for inspecting a deployment without Telegram.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"PortfolioAgent/internal/engine"
	"PortfolioAgent/internal/report"
	"PortfolioAgent/internal/store"
)

var dbPath = flag.String("db", "data/pf_agent.db", "Path to the SQLite database")
var userID = flag.String("user", "", "User id to operate on")

func openEngine() (*engine.Engine, *store.SQLiteStore, error) {
	if *userID == "" {
		return nil, nil, fmt.Errorf("-user is required")
	}
	st, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(st), st, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

type onboardCmd struct{}

func (*onboardCmd) Name() string             { return "onboard" }
func (*onboardCmd) Synopsis() string         { return "seed guardrails and demo accounts for a user" }
func (*onboardCmd) Usage() string            { return "pfctl -user <id> onboard\n" }
func (*onboardCmd) SetFlags(_ *flag.FlagSet) {}

func (c *onboardCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, st, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer st.Close()
	accounts, err := eng.Onboard(*userID)
	if err != nil {
		return fail(err)
	}
	for _, acc := range accounts {
		fmt.Printf("%s\t%s %s\n", acc.Name, acc.Balance.StringFixed(0), acc.Currency)
	}
	return subcommands.ExitSuccess
}

type accountsCmd struct{}

func (*accountsCmd) Name() string             { return "accounts" }
func (*accountsCmd) Synopsis() string         { return "list the user's accounts" }
func (*accountsCmd) Usage() string            { return "pfctl -user <id> accounts\n" }
func (*accountsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, st, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer st.Close()
	accounts, err := eng.ListAccounts(*userID)
	if err != nil {
		return fail(err)
	}
	for _, acc := range accounts {
		fmt.Printf("%s\t%s\t%s %s\t%s\n", acc.Name, acc.Type, acc.Balance.String(), acc.Currency,
			acc.LastUpdated.Format("2006-01-02 15:04"))
	}
	return subcommands.ExitSuccess
}

type accountCmd struct{}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "upsert a manual account balance" }
func (*accountCmd) Usage() string {
	return "pfctl -user <id> account <name> <balance>\n"
}
func (*accountCmd) SetFlags(_ *flag.FlagSet) {}

func (c *accountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	balance, err := decimal.NewFromString(f.Arg(1))
	if err != nil {
		return fail(fmt.Errorf("parse balance: %w", err))
	}
	eng, st, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer st.Close()
	acc, err := eng.UpdateAccount(*userID, f.Arg(0), balance)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Updated: %s = %s %s\n", acc.Name, acc.Balance.String(), acc.Currency)
	return subcommands.ExitSuccess
}

type goalCmd struct{}

func (*goalCmd) Name() string             { return "goal" }
func (*goalCmd) Synopsis() string         { return "set a goal from free-form text" }
func (*goalCmd) Usage() string            { return "pfctl -user <id> goal \"6000 by 2026-01-31\"\n" }
func (*goalCmd) SetFlags(_ *flag.FlagSet) {}

func (c *goalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	eng, st, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer st.Close()
	goal, err := eng.SetGoal(*userID, f.Arg(0))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Goal recorded: %s\n", goal.Title)
	return subcommands.ExitSuccess
}

type planCmd struct{}

func (*planCmd) Name() string             { return "plan" }
func (*planCmd) Synopsis() string         { return "expand the current goal into scenarios" }
func (*planCmd) Usage() string            { return "pfctl -user <id> plan\n" }
func (*planCmd) SetFlags(_ *flag.FlagSet) {}

func (c *planCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, st, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer st.Close()
	ids, err := eng.PlanScenarios(*userID)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Created %d scenarios\n", len(ids))
	status, err := eng.GetStatus(*userID)
	if err != nil {
		return fail(err)
	}
	fmt.Println(report.Format(status))
	return subcommands.ExitSuccess
}

type statusCmd struct{}

func (*statusCmd) Name() string             { return "status" }
func (*statusCmd) Synopsis() string         { return "print the time-ordered step report" }
func (*statusCmd) Usage() string            { return "pfctl -user <id> status\n" }
func (*statusCmd) SetFlags(_ *flag.FlagSet) {}

func (c *statusCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, st, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer st.Close()
	status, err := eng.GetStatus(*userID)
	if err != nil {
		return fail(err)
	}
	fmt.Println(report.Format(status))
	return subcommands.ExitSuccess
}

type guardrailsCmd struct{}

func (*guardrailsCmd) Name() string             { return "guardrails" }
func (*guardrailsCmd) Synopsis() string         { return "print the risk limits" }
func (*guardrailsCmd) Usage() string            { return "pfctl -user <id> guardrails\n" }
func (*guardrailsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *guardrailsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	eng, st, err := openEngine()
	if err != nil {
		return fail(err)
	}
	defer st.Close()
	text, err := eng.GetGuardrails(*userID)
	if err != nil {
		return fail(err)
	}
	fmt.Println(text)
	return subcommands.ExitSuccess
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&onboardCmd{}, "ledger")
	subcommands.Register(&accountsCmd{}, "ledger")
	subcommands.Register(&accountCmd{}, "ledger")
	subcommands.Register(&goalCmd{}, "planning")
	subcommands.Register(&planCmd{}, "planning")
	subcommands.Register(&statusCmd{}, "planning")
	subcommands.Register(&guardrailsCmd{}, "planning")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
