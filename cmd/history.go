package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/averauld/twr"
	"github.com/averauld/twr/renderer"
	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	account string
	from    string
	to      string
	live    bool
	summary bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display an account's daily performance series" }
func (*historyCmd) Usage() string {
	return `twrc history -a <account> [-from <date>] [-to <date>] [-live]

  Displays the daily time-weighted return series of one account. With
  -live the series is extended with a provisional point from the current
  balance.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account id or name to report on.")
	f.StringVar(&c.from, "from", "", "Window start date, inclusive. Open when empty.")
	f.StringVar(&c.to, "to", "", "Window end date, inclusive. Open when empty.")
	f.BoolVar(&c.live, "live", false, "Extend the series with the current balance.")
	f.BoolVar(&c.summary, "summary", false, "Print only the window summary figures.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "-a is required")
		return subcommands.ExitUsageError
	}

	window, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	computer, err := NewComputer()
	if err != nil {
		return fail(err)
	}

	accounts, err := computer.Accounts(ctx)
	if err != nil {
		return fail(err)
	}
	account, ok := findAccount(accounts, c.account)
	if !ok {
		return fail(fmt.Errorf("unknown account %q", c.account))
	}

	report, err := computer.AccountPerformance(ctx, account, twr.ComputeOptions{
		Window: window,
		Live:   c.live,
	})
	if err != nil {
		return fail(err)
	}

	if c.summary {
		printMarkdown(renderer.SummaryMarkdown(report))
	} else {
		printMarkdown(renderer.HistoryMarkdown(report))
	}
	return subcommands.ExitSuccess
}
