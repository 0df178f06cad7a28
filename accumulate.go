package posbook

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTrnType is returned when a transaction kind reaches the
// registry without a registered strategy. It is a configuration fault of the
// caller: fail fast, never retried.
var ErrUnsupportedTrnType = errors.New("unsupported transaction type")

// SequenceError reports a non-dividend transaction dated strictly before the
// position's last accumulated date. It indicates an out-of-order replay
// upstream and must abort the portfolio's recomputation, never be suppressed.
type SequenceError struct {
	AssetID string
	Last    Date // last date recorded on the position
	Got     Date // offending trade date
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("transaction for %q dated %s precedes the position's recorded date %s",
		e.AssetID, e.Got, e.Last)
}

// AccumulationStrategy applies the effect of one transaction kind to a
// position. Strategies are free of side effects beyond mutating the given
// position and, where the kind requires it, a linked cash position reached
// through the collection.
type AccumulationStrategy interface {
	SupportedType() TrnType
	Accumulate(trn *Transaction, positions *Positions, position *Position)
}

// StrategyRegistry resolves the strategy for a transaction kind. It is built
// once, explicitly, and is read-only afterwards: safe to share across
// portfolio replays.
type StrategyRegistry struct {
	strategies map[TrnType]AccumulationStrategy
}

// NewStrategyRegistry builds the registry from the full set of strategies.
// The "add" kind is an alias: it resolves to the very same buy instance.
func NewStrategyRegistry() *StrategyRegistry {
	buy := buyStrategy{}
	r := &StrategyRegistry{strategies: make(map[TrnType]AccumulationStrategy)}
	for _, s := range []AccumulationStrategy{
		buy,
		sellStrategy{},
		dividendStrategy{},
		splitStrategy{},
		depositStrategy{},
		withdrawalStrategy{},
		incomeStrategy{},
		deductionStrategy{},
		expenseStrategy{},
		costAdjustStrategy{},
		balanceStrategy{},
		fxBuyStrategy{},
	} {
		r.strategies[s.SupportedType()] = s
	}
	r.strategies[Add] = buy
	return r
}

// Get returns the strategy owning a transaction kind.
func (r *StrategyRegistry) Get(t TrnType) (AccumulationStrategy, error) {
	s, ok := r.strategies[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTrnType, t)
	}
	return s, nil
}

// Accumulator replays transactions into positions: it validates date
// ordering, dispatches to the kind's strategy, and settles the linked cash
// leg for kinds that move cash as a side effect of a trade.
type Accumulator struct {
	registry *StrategyRegistry
}

// NewAccumulator returns an accumulator with the full strategy registry.
func NewAccumulator() *Accumulator {
	return &Accumulator{registry: NewStrategyRegistry()}
}

// Accumulate applies one transaction to the portfolio's positions and
// returns the primary (asset) position.
//
// Transactions must arrive in trade-date order per asset; only dividends may
// be backdated, and never before the position's inception.
func (a *Accumulator) Accumulate(trn *Transaction, positions *Positions) (*Position, error) {
	position := positions.Get(trn.AssetID, trn.TradeDate)
	if err := checkSequence(trn, position); err != nil {
		return nil, err
	}

	strategy, err := a.registry.Get(trn.Type)
	if err != nil {
		return nil, err
	}
	strategy.Accumulate(trn, positions, position)
	stampDates(position, trn)

	// Kinds that move cash as a side effect of a trade (buy, sell, income,
	// deduction, expense) settle the linked cash position here. FX buys,
	// deposits and withdrawals already move cash as their primary effect and
	// must not be accumulated twice.
	if trn.CashAssetID != "" && trn.Type.IsCashImpacting() && !trn.Type.movesCashAsPrimary() {
		cash := positions.Get(trn.CashAssetID, trn.TradeDate)
		if trn.Type.CreditsCash() {
			cashCredit(cash, trn, cashQuantity(trn))
		} else {
			cashDebit(cash, trn, cashQuantity(trn))
		}
		stampDates(cash, trn)
	}

	return position, nil
}

// checkSequence enforces the date-ordering invariant. Equal dates are
// accepted; dividends may be backdated down to the position's inception.
func checkSequence(trn *Transaction, p *Position) error {
	if trn.Type == Dividend {
		if !p.Dates.Opened.IsZero() && trn.TradeDate.Before(p.Dates.Opened) {
			return &SequenceError{AssetID: p.AssetID, Last: p.Dates.Opened, Got: trn.TradeDate}
		}
		return nil
	}
	if !p.Dates.Last.IsZero() && trn.TradeDate.Before(p.Dates.Last) {
		return &SequenceError{AssetID: p.AssetID, Last: p.Dates.Last, Got: trn.TradeDate}
	}
	return nil
}

// stampDates records inception on first touch and advances the last
// accumulated date. Backdated dividends never move Last backwards.
func stampDates(p *Position, trn *Transaction) {
	if p.Dates.Opened.IsZero() {
		p.Dates.Opened = trn.TradeDate
	}
	if p.Dates.Last.IsZero() || !trn.TradeDate.Before(p.Dates.Last) {
		p.Dates.Last = trn.TradeDate
	}
}
