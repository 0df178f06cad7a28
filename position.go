package posbook

// QuantityValues tracks the units held by a position. Sold is kept as a
// negative running total so that the held total is always the plain sum of
// the three parts, never a stored field that can drift.
type QuantityValues struct {
	Purchased  Quantity
	Sold       Quantity // negative running total
	Adjustment Quantity // net effect of splits
}

// Total returns purchased + sold + adjustment.
func (q QuantityValues) Total() Quantity {
	return q.Purchased.Add(q.Sold).Add(q.Adjustment)
}

// MoneyValues is one currency view of a position: every monetary figure the
// position tracks, denominated in a single resolved currency.
type MoneyValues struct {
	Currency string

	Purchases Money
	Sales     Money

	CostBasis   Money
	CostValue   Money
	AverageCost Money

	Dividends Money
	Expenses  Money

	RealisedGain   Money
	UnrealisedGain Money
	TotalGain      Money

	MarketValue Money
	Price       Money // latest close used by the valuation stage
}

func newMoneyValues(currency string) *MoneyValues {
	zero := M(0, currency)
	return &MoneyValues{
		Currency:       currency,
		Purchases:      zero,
		Sales:          zero,
		CostBasis:      zero,
		CostValue:      zero,
		AverageCost:    zero,
		Dividends:      zero,
		Expenses:       zero,
		RealisedGain:   zero,
		UnrealisedGain: zero,
		TotalGain:      zero,
		MarketValue:    zero,
		Price:          zero,
	}
}

// MarshalJSON writes the money values with a stable field order.
func (mv MoneyValues) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", mv.Currency)
	w.Append("purchases", mv.Purchases)
	w.Append("sales", mv.Sales)
	w.Append("costBasis", mv.CostBasis)
	w.Append("costValue", mv.CostValue)
	w.Append("averageCost", mv.AverageCost)
	w.Append("dividends", mv.Dividends)
	w.Append("expenses", mv.Expenses)
	w.Append("realisedGain", mv.RealisedGain)
	w.Append("unrealisedGain", mv.UnrealisedGain)
	w.Append("totalGain", mv.TotalGain)
	w.Append("marketValue", mv.MarketValue)
	w.Append("price", mv.Price)
	return w.MarshalJSON()
}

// DateValues tracks the dates that gate accumulation ordering.
type DateValues struct {
	Opened       Date // first transaction ever accumulated
	Last         Date // most recent accumulated transaction
	LastDividend Date
	Closed       Date // set when the held total returns exactly to zero
}

// Position is the running state of one holding inside a portfolio: its
// quantities, its three currency views, and its gating dates.
type Position struct {
	AssetID    string
	AsOf       Date // seeded on first reference
	Quantities QuantityValues
	Dates      DateValues

	money     map[CurrencyView]*MoneyValues
	portfolio *Portfolio
}

func newPosition(portfolio *Portfolio, assetID string, on Date) *Position {
	return &Position{
		AssetID:   assetID,
		AsOf:      on,
		money:     make(map[CurrencyView]*MoneyValues, len(Views)),
		portfolio: portfolio,
	}
}

// Total returns the currently held quantity.
func (p *Position) Total() Quantity { return p.Quantities.Total() }

// IsClosed reports whether the position has returned exactly to zero and has
// not been re-opened since.
func (p *Position) IsClosed() bool { return !p.Dates.Closed.IsZero() }

// Values returns the money bucket for a view, creating it on first touch with
// the currency that view resolves to for the given trade currency.
func (p *Position) Values(view CurrencyView, tradeCurrency string) *MoneyValues {
	mv, ok := p.money[view]
	if !ok {
		mv = newMoneyValues(ResolveCurrency(view, p.portfolio, tradeCurrency))
		p.money[view] = mv
	}
	return mv
}

// View returns the money bucket for a view, or nil if the position has never
// been accumulated in it.
func (p *Position) View(view CurrencyView) *MoneyValues { return p.money[view] }

// eachView invokes f once per currency view with the bucket and the trade
// amount converted at that view's rate. All three buckets are always updated
// from the same transaction.
func (p *Position) eachView(trn *Transaction, f func(view CurrencyView, mv *MoneyValues, amount Money)) {
	for _, view := range Views {
		cur := ResolveCurrency(view, p.portfolio, trn.TradeCurrency())
		f(view, p.Values(view, trn.TradeCurrency()), trn.TradeAmount.In(cur, trn.rate(view)))
	}
}

// eachCashView is eachView for the cash leg: the amount is the cash-settled
// one, and the trade view resolves to the cash currency.
func (p *Position) eachCashView(trn *Transaction, f func(view CurrencyView, mv *MoneyValues, amount Money)) {
	leg := trn.cashLeg()
	for _, view := range Views {
		cur := ResolveCurrency(view, p.portfolio, leg.Currency())
		f(view, p.Values(view, leg.Currency()), leg.In(cur, trn.rate(view)))
	}
}

// MarshalJSON writes the position with a stable field order, the shape the
// API layer serves holdings in.
func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", p.AssetID)
	w.Append("asOf", p.AsOf)

	var q jsonObjectWriter
	q.Append("purchased", p.Quantities.Purchased)
	q.Append("sold", p.Quantities.Sold)
	q.Append("adjustment", p.Quantities.Adjustment)
	q.Append("total", p.Total())
	w.Append("quantities", &q)

	var d jsonObjectWriter
	d.Optional("opened", p.Dates.Opened)
	d.Optional("last", p.Dates.Last)
	d.Optional("lastDividend", p.Dates.LastDividend)
	d.Optional("closed", p.Dates.Closed)
	w.Append("dates", &d)

	for _, view := range Views {
		if mv := p.money[view]; mv != nil {
			w.Append(view.String(), mv)
		}
	}
	return w.MarshalJSON()
}
