package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/avrel/posbook"
	"github.com/avrel/posbook/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	date    string
	view    string
	prices  string
	rates   string
	sources string
	update  bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display valued positions" }
func (*holdingCmd) Usage() string {
	return `pbk holding [-d <date>] [-v <view>] [-prices <file>] [-rates <file>] [-u]

  Replays the ledger into positions, values them against a market snapshot
  and an FX rate table, and displays the result.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", posbook.Today().String(), "Date stamped on the report. See 'pbk topic ledger' for supported date formats.")
	f.StringVar(&c.view, "v", "portfolio", "Currency view to report: trade, base or portfolio")
	f.StringVar(&c.prices, "prices", "", "JSON file mapping asset to its latest close price")
	f.StringVar(&c.rates, "rates", "", "JSON file listing FX rates")
	f.StringVar(&c.sources, "sources", "sources.json", "JSON file describing quote endpoints, used with -u")
	f.BoolVar(&c.update, "u", false, "fetch latest prices and rates from the quote sources before valuing")
}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := posbook.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	view, err := posbook.ParseCurrencyView(c.view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	positions, err := ledger.Replay()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	market, rates, err := c.marketData()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: incomplete market data: %v\n", err)
	}

	posbook.Value(positions, market, rates)
	printMarkdown(renderer.RenderHoldings(renderer.NewHoldingReport(positions, view, on)))

	return subcommands.ExitSuccess
}

// marketData assembles the market snapshot and FX rate table from the price
// and rate files, then from the quote sources when -u is set. Partial data is
// returned along with the error: a missing quote degrades the report.
func (c *holdingCmd) marketData() (posbook.MarketSnapshot, posbook.FxRates, error) {
	market := make(posbook.MarketSnapshot)
	rates := make(posbook.FxRates)

	if c.prices != "" {
		var prices map[string]posbook.Money
		if err := readJSONFile(c.prices, &prices); err != nil {
			return market, rates, err
		}
		for asset, close := range prices {
			market[asset] = posbook.MarketData{AssetID: asset, Close: close, AsOf: posbook.Today()}
		}
	}

	if c.rates != "" {
		var list []struct {
			From string          `json:"from"`
			To   string          `json:"to"`
			Rate decimal.Decimal `json:"rate"`
		}
		if err := readJSONFile(c.rates, &list); err != nil {
			return market, rates, err
		}
		for _, r := range list {
			rates[posbook.CurrencyPair{From: r.From, To: r.To}] = r.Rate
		}
	}

	if !c.update {
		return market, rates, nil
	}

	var sources struct {
		Assets map[string]posbook.QuoteSource `json:"assets"`
		Rates  []struct {
			From string `json:"from"`
			To   string `json:"to"`
			posbook.QuoteSource
		} `json:"rates"`
	}
	if err := readJSONFile(c.sources, &sources); err != nil {
		return market, rates, err
	}

	client := posbook.Daily()
	fetched, err := posbook.FetchSnapshot(client, sources.Assets)
	for asset, md := range fetched {
		market[asset] = md
	}

	rateSources := make(map[posbook.CurrencyPair]posbook.QuoteSource, len(sources.Rates))
	for _, r := range sources.Rates {
		rateSources[posbook.CurrencyPair{From: r.From, To: r.To}] = r.QuoteSource
	}
	fetchedRates, rerr := posbook.FetchRates(client, rateSources)
	for pair, rate := range fetchedRates {
		rates[pair] = rate
	}
	if err == nil {
		err = rerr
	}
	return market, rates, err
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON in %q: %w", path, err)
	}
	return nil
}
