package posbook

import "fmt"

// CurrencyView selects which of the three parallel monetary views of a
// position is being read or written.
type CurrencyView int

const (
	// TradeView values money in the transaction's own currency.
	TradeView CurrencyView = iota
	// BaseView values money in the portfolio's base currency.
	BaseView
	// PortfolioView values money in the portfolio's reporting currency.
	PortfolioView
)

// Views lists the three currency views, in the order they are accumulated.
var Views = [3]CurrencyView{TradeView, BaseView, PortfolioView}

func (v CurrencyView) String() string {
	switch v {
	case TradeView:
		return "trade"
	case BaseView:
		return "base"
	case PortfolioView:
		return "portfolio"
	default:
		return fmt.Sprintf("CurrencyView(%d)", int(v))
	}
}

// ParseCurrencyView parses a view selector as used on the command line.
func ParseCurrencyView(s string) (CurrencyView, error) {
	for _, v := range Views {
		if v.String() == s {
			return v, nil
		}
	}
	return TradeView, fmt.Errorf("unknown currency view %q, want trade, base or portfolio", s)
}

// ResolveCurrency returns the currency a view is denominated in: the trade
// currency itself for TradeView, and the portfolio's base or reporting
// currency otherwise.
func ResolveCurrency(view CurrencyView, p *Portfolio, tradeCurrency string) string {
	switch view {
	case BaseView:
		return p.Base
	case PortfolioView:
		return p.Currency
	default:
		return tradeCurrency
	}
}
