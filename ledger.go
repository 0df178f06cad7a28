package posbook

import (
	"iter"
	"sort"
)

// Ledger is the ordered transaction history of one portfolio.
//
// Transactions are always kept in chronological order; the sort is stable so
// same-day transactions preserve their original relative order.
type Ledger struct {
	portfolio    *Portfolio
	transactions []Transaction
}

// NewLedger creates an empty ledger for a portfolio.
func NewLedger(portfolio *Portfolio) *Ledger {
	return &Ledger{
		portfolio:    portfolio,
		transactions: make([]Transaction, 0),
	}
}

// Portfolio returns the portfolio this ledger belongs to.
func (l *Ledger) Portfolio() *Portfolio { return l.portfolio }

// Append appends transactions and maintains the chronological order.
func (l *Ledger) Append(txs ...Transaction) {
	for i := range txs {
		if txs[i].Portfolio == nil {
			txs[i].Portfolio = l.portfolio
		}
	}
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions iterates the transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq[*Transaction] {
	return func(yield func(*Transaction) bool) {
		for i := range l.transactions {
			if !yield(&l.transactions[i]) {
				return
			}
		}
	}
}

func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].TradeDate.Before(l.transactions[j].TradeDate)
	})
}

// Replay recomputes the portfolio's positions from scratch. This is the full
// replay model: positions are never patched incrementally, any change to the
// history starts over from an empty collection.
//
// A replay stops at the first sequence or registry error: a failed
// accumulation indicates an upstream bug, and the partially accumulated
// collection must be discarded by the caller.
func (l *Ledger) Replay() (*Positions, error) {
	accumulator := NewAccumulator()
	positions := NewPositions(l.portfolio)
	for trn := range l.Transactions() {
		if _, err := accumulator.Accumulate(trn, positions); err != nil {
			return nil, err
		}
	}
	return positions, nil
}
