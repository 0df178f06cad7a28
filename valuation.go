package posbook

import "github.com/shopspring/decimal"

// MarketData is the close-price snapshot for one asset, supplied by the
// market-data subsystem per valuation call.
type MarketData struct {
	AssetID string
	Close   Money
	AsOf    Date
}

// MarketSnapshot maps asset to its market data for one valuation pass.
type MarketSnapshot map[string]MarketData

// CurrencyPair keys an FX rate in the rate table.
type CurrencyPair struct {
	From string
	To   string
}

// FxRates is the FX rate table supplied per valuation call, quoted as "units
// of To per unit of From".
type FxRates map[CurrencyPair]decimal.Decimal

// Rate returns the rate converting from one currency to another. Identical
// currencies and missing pairs read as rate 1: an unpriced pair degrades the
// report, it never fails the valuation.
func (r FxRates) Rate(from, to string) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}
	if rate, ok := r[CurrencyPair{From: from, To: to}]; ok && !rate.IsZero() {
		return rate
	}
	return decimal.NewFromInt(1)
}

// Value runs the valuation stage over fully accumulated positions: for each
// priced position and each currency view it computes market value,
// unrealised gain and total gain. Positions without a price keep a zero
// market value and zero unrealised gain; off-market assets are a legitimate
// state, not an error. It returns the same collection for chaining.
func Value(positions *Positions, market MarketSnapshot, rates FxRates) *Positions {
	for p := range positions.All() {
		valuePosition(p, market, rates)
	}
	return positions
}

func valuePosition(p *Position, market MarketSnapshot, rates FxRates) {
	md, priced := market[p.AssetID]
	total := p.Total()

	for _, view := range Views {
		mv := p.View(view)
		if mv == nil {
			if !priced {
				continue
			}
			// Never accumulated in this view (e.g. an FX counter leg):
			// resolve its currency from the price currency.
			mv = p.Values(view, md.Close.Currency())
		}

		if priced && !total.IsZero() {
			rate := rates.Rate(md.Close.Currency(), mv.Currency)
			mv.Price = md.Close
			price := M(md.Close.Amount().Mul(rate), mv.Currency)
			mv.MarketValue = price.Mul(total)
			mv.UnrealisedGain = mv.MarketValue.Sub(mv.CostValue)
		} else {
			mv.MarketValue = M(0, mv.Currency)
			mv.UnrealisedGain = M(0, mv.Currency)
		}
		mv.TotalGain = mv.UnrealisedGain.
			Add(mv.RealisedGain).
			Add(mv.Dividends).
			Sub(mv.Expenses)
	}
}
