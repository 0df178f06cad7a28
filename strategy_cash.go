package posbook

// Strategies for the cash kinds: deposits, withdrawals, income, deductions,
// expenses, balance snapshots and FX buys.

type depositStrategy struct{}

func (depositStrategy) SupportedType() TrnType { return Deposit }

func (depositStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	cashCredit(p, trn, cashQuantity(trn))
}

type withdrawalStrategy struct{}

func (withdrawalStrategy) SupportedType() TrnType { return Withdrawal }

func (withdrawalStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	cashDebit(p, trn, cashQuantity(trn))
}

type incomeStrategy struct{}

func (incomeStrategy) SupportedType() TrnType { return Income }

func (incomeStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	// With a linked cash asset the accumulator settles the cash side; without
	// one the primary position is the cash bucket itself.
	if trn.CashAssetID != "" {
		return
	}
	cashCredit(p, trn, cashQuantity(trn))
}

type deductionStrategy struct{}

func (deductionStrategy) SupportedType() TrnType { return Deduction }

func (deductionStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	if trn.CashAssetID != "" {
		return
	}
	cashDebit(p, trn, cashQuantity(trn))
}

type expenseStrategy struct{}

func (expenseStrategy) SupportedType() TrnType { return Expense }

func (expenseStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	// Expenses accrue against the asset's position, not the cash one, and
	// never touch its cost basis. The cash debit is settled by the
	// accumulator through the linked cash asset.
	p.eachView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		mv.Expenses = mv.Expenses.Add(amount)
	})
}

type balanceStrategy struct{}

func (balanceStrategy) SupportedType() TrnType { return Balance }

func (balanceStrategy) Accumulate(trn *Transaction, _ *Positions, p *Position) {
	// A balance is a snapshot, not a movement: it seeds or resets a
	// cash-like position from an external balance read, so purchased and the
	// money buckets are assigned, not added to.
	p.Quantities = QuantityValues{Purchased: trn.TradeAmount.Quantity()}
	p.eachView(trn, func(_ CurrencyView, mv *MoneyValues, amount Money) {
		mv.Purchases = amount
		mv.Sales = M(0, mv.Currency)
		mv.CostBasis = amount
	})
	refreshAverage(p)
	settleCost(p, trn.TradeDate)
}

type fxBuyStrategy struct{}

func (fxBuyStrategy) SupportedType() TrnType { return FXBuy }

func (fxBuyStrategy) Accumulate(trn *Transaction, positions *Positions, p *Position) {
	// The foreign-currency position accumulates exactly like a buy.
	buyStrategy{}.Accumulate(trn, positions, p)

	// The home-currency side is consumed in units only: its money buckets
	// stay unvalued until the FX accounting treatment is confirmed.
	if trn.CashAssetID != "" {
		cash := positions.Get(trn.CashAssetID, trn.TradeDate)
		cash.Quantities.Sold = cash.Quantities.Sold.Add(trn.cashLeg().Quantity().Abs().Neg())
		stampDates(cash, trn)
	}
}
