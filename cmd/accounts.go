package cmd

import (
	"context"
	"flag"

	"github.com/averauld/twr/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list brokerage accounts" }
func (*accountsCmd) Usage() string {
	return `twrc accounts

  Lists the accounts known to the gateway with their first trade dates.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	computer, err := NewComputer()
	if err != nil {
		return fail(err)
	}

	accounts, err := computer.Accounts(ctx)
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.AccountsMarkdown(accounts))
	return subcommands.ExitSuccess
}
