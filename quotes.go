package posbook

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// Quote feed support: turns provider JSON payloads into the MarketSnapshot
// and FxRates consumed by the valuation stage. This is strictly outside the
// engine core: accumulation and valuation never fetch anything themselves.

// defaultClosePath points at the last value of an intraday chart series, the
// shape most chart endpoints serve.
const defaultClosePath = "$.series.intraday.data[-1:][1]"

// QuoteSource describes where and how to read one quoted value: the endpoint
// URL, the currency the value is quoted in, and a jsonpath expression to the
// value inside the payload.
type QuoteSource struct {
	URL      string
	Currency string
	Path     string // jsonpath to the close value; defaults to defaultClosePath
}

// Latest fetches the source and extracts the quoted value.
func (s QuoteSource) Latest(client *http.Client) (Money, error) {
	var jobj any
	if err := jwget(client, s.URL, &jobj); err != nil {
		return Money{}, fmt.Errorf("error in wget %q: %w", s.URL, err)
	}

	path := s.Path
	if path == "" {
		path = defaultClosePath
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return Money{}, fmt.Errorf("error parsing %q: %q %w", s.URL, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	val, ok := jval.(float64)
	if !ok {
		return Money{}, fmt.Errorf("error parsing %q: %q %s %v", s.URL, path, "not a number", jval)
	}
	return M(val, s.Currency), nil
}

// FetchSnapshot reads the latest close for every asset from its quote source
// and assembles a market snapshot dated today. Failing sources are skipped
// and reported joined: a missing price leaves the position unvalued, it
// never fails the whole snapshot.
func FetchSnapshot(client *http.Client, sources map[string]QuoteSource) (MarketSnapshot, error) {
	snapshot := make(MarketSnapshot, len(sources))
	var errs error
	for asset, source := range sources {
		close, err := source.Latest(client)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("could not get close for %s: %w", asset, err))
			continue
		}
		snapshot[asset] = MarketData{AssetID: asset, Close: close, AsOf: Today()}
	}
	return snapshot, errs
}

// FetchRates reads FX rates from their quote sources into a rate table.
func FetchRates(client *http.Client, sources map[CurrencyPair]QuoteSource) (FxRates, error) {
	rates := make(FxRates, len(sources))
	var errs error
	for pair, source := range sources {
		rate, err := source.Latest(client)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("could not get rate for %s/%s: %w", pair.From, pair.To, err))
			continue
		}
		rates[pair] = rate.Amount()
	}
	return rates, errs
}
