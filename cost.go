package posbook

// The cost model: pure helpers shared by every cost-affecting strategy, so
// the reset-on-zero invariant lives in exactly one place.

// averageCost returns costBasis divided by the held total, or zero when
// nothing is held (never a division fault).
func averageCost(costBasis Money, total Quantity) Money {
	if total.IsZero() {
		return M(0, costBasis.Currency())
	}
	return costBasis.Div(total)
}

// costValue returns averageCost * total, or the pre-existing cost value when
// the total is zero.
func costValue(mv *MoneyValues, total Quantity) Money {
	if total.IsZero() {
		return mv.CostValue
	}
	return mv.AverageCost.Mul(total)
}

// settleCost re-establishes the cost invariants after a cost-affecting
// mutation.
//
// When the held total has returned exactly to zero the position is closed:
// cost basis, cost value, average cost, market value and unrealised gain are
// reset in every currency view and the closing date is stamped. Realised
// gain, dividends and expenses are carried forward. Otherwise cost value
// follows the current average cost and the new total; a sale never moves the
// average cost of the units that remain.
func settleCost(p *Position, on Date) {
	total := p.Total()
	if total.IsZero() {
		for _, mv := range p.money {
			zero := M(0, mv.Currency)
			mv.CostBasis = zero
			mv.CostValue = zero
			mv.AverageCost = zero
			mv.MarketValue = zero
			mv.UnrealisedGain = zero
		}
		p.Dates.Closed = on
		return
	}
	// A buy after a full exit re-opens the position with a fresh basis.
	p.Dates.Closed = Date{}
	for _, mv := range p.money {
		mv.CostValue = costValue(mv, total)
	}
}

// refreshAverage recomputes the average cost from the cost basis and the held
// total. Buys, splits, cost adjustments and cash movements change the basis
// or the total and call this before settling; sells do not.
func refreshAverage(p *Position) {
	total := p.Total()
	if total.IsZero() {
		return
	}
	for _, mv := range p.money {
		mv.AverageCost = averageCost(mv.CostBasis, total)
	}
}

// cashQuantity returns the number of cash units a transaction moves: the
// transaction quantity for pure-cash kinds, the cash-settled amount
// otherwise.
func cashQuantity(trn *Transaction) Quantity {
	switch trn.Type {
	case Deposit, Withdrawal:
		if !trn.Quantity.IsZero() {
			return trn.Quantity
		}
	}
	return trn.cashLeg().Quantity()
}

// cashCredit moves money into a cash position: units into purchased, amounts
// into purchases and cost basis in every view.
func cashCredit(p *Position, trn *Transaction, qty Quantity) {
	p.Quantities.Purchased = p.Quantities.Purchased.Add(qty.Abs())
	p.eachCashView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		a := amount.Abs()
		mv.Purchases = mv.Purchases.Add(a)
		mv.CostBasis = mv.CostBasis.Add(a)
	})
	refreshAverage(p)
	settleCost(p, trn.TradeDate)
}

// cashDebit moves money out of a cash position: units out through sold (kept
// negative), amounts out of sales and cost basis in every view.
func cashDebit(p *Position, trn *Transaction, qty Quantity) {
	p.Quantities.Sold = p.Quantities.Sold.Add(qty.Abs().Neg())
	p.eachCashView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		a := amount.Abs()
		mv.Sales = mv.Sales.Sub(a)
		mv.CostBasis = mv.CostBasis.Sub(a)
	})
	refreshAverage(p)
	settleCost(p, trn.TradeDate)
}
