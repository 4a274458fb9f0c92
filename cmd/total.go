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

// totalCmd holds the flags for the 'total' subcommand.
type totalCmd struct {
	from    string
	to      string
	live    bool
	history bool
}

func (*totalCmd) Name() string     { return "total" }
func (*totalCmd) Synopsis() string { return "display the combined performance of all accounts" }
func (*totalCmd) Usage() string {
	return `twrc total [-from <date>] [-to <date>] [-live] [-history]

  Displays the Total Accounts series: every account combined into one
  portfolio-level time-weighted return. If any account cannot be fetched
  the aggregate is reported as unavailable rather than under-counted.
`
}

func (c *totalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Window start date, inclusive. Open when empty.")
	f.StringVar(&c.to, "to", "", "Window end date, inclusive. Open when empty.")
	f.BoolVar(&c.live, "live", false, "Extend the series with the current balances.")
	f.BoolVar(&c.history, "history", false, "Print the full daily series instead of the summary.")
}

func (c *totalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report, err := computer.TotalPerformance(ctx, accounts, twr.ComputeOptions{
		Window: window,
		Live:   c.live,
	})
	if err != nil {
		return fail(err)
	}

	if c.history {
		printMarkdown(renderer.HistoryMarkdown(report))
	} else {
		printMarkdown(renderer.SummaryMarkdown(report))
	}
	return subcommands.ExitSuccess
}
