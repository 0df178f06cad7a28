package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avrel/posbook/renderer"
	"github.com/google/subcommands"
)

type logCmd struct{}

func (*logCmd) Name() string             { return "log" }
func (*logCmd) Synopsis() string         { return "display the transaction log" }
func (*logCmd) SetFlags(f *flag.FlagSet) {}
func (*logCmd) Usage() string {
	return `pbk log

  Displays the ledger's transactions in chronological order.
`
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderTransactions(renderer.NewTransactionLog(ledger)))
	return subcommands.ExitSuccess
}
