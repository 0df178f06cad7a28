package posbook

// Strategies for the trade kinds: buy (and its "add" alias), sell, dividend,
// split and cost adjustment. Each owns exactly one transaction kind and only
// mutates the position it is given.

type buyStrategy struct{}

func (buyStrategy) SupportedType() TrnType { return Buy }

func (buyStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	p.Quantities.Purchased = p.Quantities.Purchased.Add(trn.Quantity)
	p.eachView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		mv.Purchases = mv.Purchases.Add(amount)
		mv.CostBasis = mv.CostBasis.Add(amount)
	})
	refreshAverage(p)
	settleCost(p, trn.TradeDate)
}

type sellStrategy struct{}

func (sellStrategy) SupportedType() TrnType { return Sell }

func (sellStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	// The sold running total is negative whichever sign the caller used.
	qty := trn.Quantity
	if qty.IsPositive() {
		qty = qty.Neg()
	}
	p.Quantities.Sold = p.Quantities.Sold.Add(qty)

	sold := qty.Abs()
	p.eachView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		mv.Sales = mv.Sales.Add(amount)
		if !trn.TradeAmount.IsZero() && !sold.IsZero() {
			// Realised gain recognised at the moment of sale, against the
			// average cost in this view.
			unitCost := amount.Div(sold)
			unitProfit := unitCost.Sub(mv.AverageCost)
			mv.RealisedGain = mv.RealisedGain.Add(unitProfit.Mul(sold))
		}
	})
	settleCost(p, trn.TradeDate)
}

type dividendStrategy struct{}

func (dividendStrategy) SupportedType() TrnType { return Dividend }

func (dividendStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	// Dividends never touch quantity or cost basis.
	p.eachView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		mv.Dividends = mv.Dividends.Add(amount)
	})
	p.Dates.LastDividend = trn.TradeDate
}

type splitStrategy struct{}

func (splitStrategy) SupportedType() TrnType { return Split }

func (splitStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	// The transaction quantity is the split ratio: new total = ratio * old
	// total, recorded as an adjustment so purchased and sold are untouched.
	total := p.Total()
	p.Quantities.Adjustment = p.Quantities.Adjustment.Add(trn.Quantity.Mul(total).Sub(total))
	// Cost basis is conserved; average cost and cost value follow the new total.
	refreshAverage(p)
	settleCost(p, trn.TradeDate)
}

type costAdjustStrategy struct{}

func (costAdjustStrategy) SupportedType() TrnType { return CostAdjust }

func (costAdjustStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	// The amount may be negative, e.g. a return of capital.
	p.eachView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		mv.CostBasis = mv.CostBasis.Add(amount)
	})
	if !p.Total().IsZero() {
		refreshAverage(p)
		settleCost(p, trn.TradeDate)
	}
}
