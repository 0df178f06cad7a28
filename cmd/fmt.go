package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avrel/posbook"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) SetFlags(f *flag.FlagSet) {}
func (*fmtCmd) Usage() string {
	return `pbk fmt

  Validates and formats the ledger file. This command reads all transactions,
  validates them, sorts them by date, and writes them back in a canonical
  JSONL format.
`
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	// Replay to catch sequencing bugs before touching the file.
	if _, err := ledger.Replay(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: ledger does not replay: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := posbook.EncodeLedger(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d transactions in %q.\n", ledger.Len(), *ledgerFile)
	return subcommands.ExitSuccess
}
