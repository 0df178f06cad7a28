package posbook

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// Return reports the unrealised gain as a percentage of the cost value, the
// usual "performance" column of a holding report. A position with no cost
// value has no meaningful return.
func (mv *MoneyValues) Return() Percent {
	if mv.CostValue.IsZero() {
		return 0
	}
	r, _ := mv.UnrealisedGain.Amount().
		Div(mv.CostValue.Amount()).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return Percent(r)
}
