// Package cmd implements the CLI application to manage a portfolio ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/avrel/posbook"
	"github.com/charmbracelet/glamour"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var portfolioCurrency = flag.String("currency", "USD", "Portfolio reporting currency")
var baseCurrency = flag.String("base", "", "Portfolio base currency, defaults to the reporting currency")

// DecodeLedger reads the app ledger file into a chronologically sorted ledger.
func DecodeLedger() (*posbook.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	portfolio := posbook.NewPortfolio(*ledgerFile, *portfolioCurrency, *baseCurrency)
	return posbook.DecodeLedger(portfolio, f)
}

// printMarkdown renders markdown to the terminal. When rendering fails the
// raw markdown is still usable output.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
