package posbook

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TrnType is a typed string identifying the kind of a transaction.
type TrnType string

// Transaction kinds understood by the accumulator.
const (
	Buy        TrnType = "buy"
	Add        TrnType = "add" // accumulates exactly like a buy
	Sell       TrnType = "sell"
	Dividend   TrnType = "dividend"
	Split      TrnType = "split"
	Deposit    TrnType = "deposit"
	Withdrawal TrnType = "withdrawal"
	Income     TrnType = "income"
	Deduction  TrnType = "deduction"
	Expense    TrnType = "expense"
	CostAdjust TrnType = "cost-adjust"
	Balance    TrnType = "balance"
	FXBuy      TrnType = "fx-buy"
)

// trnTypes lists every supported kind, in registration order.
var trnTypes = []TrnType{
	Buy, Add, Sell, Dividend, Split, Deposit, Withdrawal,
	Income, Deduction, Expense, CostAdjust, Balance, FXBuy,
}

func (t TrnType) String() string { return string(t) }

// ParseTrnType parses a string into a TrnType.
func ParseTrnType(s string) (TrnType, error) {
	for _, t := range trnTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type: %q", s)
}

// IsCashImpacting reports whether the kind's effect includes moving money in
// or out of a cash position. Dividends, splits and cost adjustments never
// touch cash.
func (t TrnType) IsCashImpacting() bool {
	switch t {
	case Dividend, Split, CostAdjust:
		return false
	}
	return true
}

// CreditsCash reports whether the kind moves money into cash. Every other
// cash-impacting kind debits it.
func (t TrnType) CreditsCash() bool {
	switch t {
	case Sell, Deposit, Income, Balance:
		return true
	}
	return false
}

// movesCashAsPrimary reports whether the kind's own strategy already moves
// cash, so the accumulator must not accumulate the linked cash position a
// second time.
func (t TrnType) movesCashAsPrimary() bool {
	switch t {
	case FXBuy, Deposit, Withdrawal:
		return true
	}
	return false
}

// Transaction is a single, immutable portfolio event: a trade leg on an
// asset, and optionally a cash leg on a linked cash position.
//
// The three rates are quoted as "units of trade currency per unit of
// base/cash/portfolio currency" at the time of trade; they are supplied by
// the upstream enrichment service and trusted as-is. A zero rate reads as 1.
type Transaction struct {
	Type        TrnType
	Portfolio   *Portfolio // owning portfolio, supplies base and reporting currencies
	AssetID     string     // primary asset
	CashAssetID string     // linked cash position, when the kind moves cash

	Quantity    Quantity // signed number of units (or split ratio for splits)
	TradeAmount Money    // gross amount in trade currency
	CashAmount  Money    // amount settled on the cash leg, in cash currency

	CashCurrency string // currency of the cash leg when CashAmount is not supplied

	TradeDate Date

	TradeBaseRate      decimal.Decimal
	TradeCashRate      decimal.Decimal
	TradePortfolioRate decimal.Decimal
}

// TradeCurrency returns the currency the trade leg is denominated in.
func (t *Transaction) TradeCurrency() string { return t.TradeAmount.Currency() }

// rate returns the trade rate applicable to a currency view.
func (t *Transaction) rate(view CurrencyView) decimal.Decimal {
	switch view {
	case BaseView:
		return t.TradeBaseRate
	case PortfolioView:
		return t.TradePortfolioRate
	default:
		return decimal.NewFromInt(1)
	}
}

// cashLeg returns the amount settled on the cash side of the transaction.
// When the importer did not supply one, it is derived from the trade amount
// and the trade/cash rate.
func (t *Transaction) cashLeg() Money {
	if !t.CashAmount.IsZero() {
		return t.CashAmount
	}
	cur := t.CashCurrency
	if cur == "" {
		cur = t.TradeCurrency()
	}
	return t.TradeAmount.In(cur, t.TradeCashRate)
}

// MarshalJSON writes the transaction as a flat JSON object with a stable
// field order, suitable for JSONL ledger files.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", t.Type)
	w.Append("date", t.TradeDate)
	w.Append("asset", t.AssetID)
	w.Optional("cashAsset", t.CashAssetID)
	w.Append("quantity", t.Quantity)
	w.Append("tradeAmount", t.TradeAmount)
	if !t.CashAmount.IsZero() {
		w.Append("cashAmount", t.CashAmount)
	}
	w.Optional("cashCurrency", t.CashCurrency)
	if !t.TradeBaseRate.IsZero() {
		w.Append("tradeBaseRate", t.TradeBaseRate)
	}
	if !t.TradeCashRate.IsZero() {
		w.Append("tradeCashRate", t.TradeCashRate)
	}
	if !t.TradePortfolioRate.IsZero() {
		w.Append("tradePortfolioRate", t.TradePortfolioRate)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON reads a transaction written by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Type               TrnType         `json:"type"`
		Date               Date            `json:"date"`
		Asset              string          `json:"asset"`
		CashAsset          string          `json:"cashAsset"`
		Quantity           Quantity        `json:"quantity"`
		TradeAmount        Money           `json:"tradeAmount"`
		CashAmount         Money           `json:"cashAmount"`
		CashCurrency       string          `json:"cashCurrency"`
		TradeBaseRate      decimal.Decimal `json:"tradeBaseRate"`
		TradeCashRate      decimal.Decimal `json:"tradeCashRate"`
		TradePortfolioRate decimal.Decimal `json:"tradePortfolioRate"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if _, err := ParseTrnType(string(temp.Type)); err != nil {
		return err
	}
	t.Type = temp.Type
	t.TradeDate = temp.Date
	t.AssetID = temp.Asset
	t.CashAssetID = temp.CashAsset
	t.Quantity = temp.Quantity
	t.TradeAmount = temp.TradeAmount
	t.CashAmount = temp.CashAmount
	t.CashCurrency = temp.CashCurrency
	t.TradeBaseRate = temp.TradeBaseRate
	t.TradeCashRate = temp.TradeCashRate
	t.TradePortfolioRate = temp.TradePortfolioRate
	return nil
}

// Portfolio identifies the reporting currencies for a run of accumulation.
// It is immutable for the duration of a replay.
type Portfolio struct {
	Code     string // caller-supplied identifier
	Currency string // primary reporting currency (PORTFOLIO view)
	Base     string // secondary reporting currency (BASE view)
}

// NewPortfolio creates a portfolio. An empty base currency defaults to the
// portfolio currency.
func NewPortfolio(code, currency, base string) *Portfolio {
	if base == "" {
		base = currency
	}
	return &Portfolio{Code: code, Currency: currency, Base: base}
}
