package renderer

import (
	"github.com/avrel/posbook"
)

// TransactionRow is one ledger line, pre-formatted for the markdown table.
type TransactionRow struct {
	Date      string
	Type      string
	Asset     string
	CashAsset string
	Quantity  string
	Amount    string
}

// TransactionLog is the view-model behind the transaction log report.
type TransactionLog struct {
	Portfolio string
	Rows      []TransactionRow
}

// NewTransactionLog builds a log report from a ledger, in chronological order.
func NewTransactionLog(ledger *posbook.Ledger) *TransactionLog {
	log := &TransactionLog{Portfolio: ledger.Portfolio().Code}
	for trn := range ledger.Transactions() {
		log.Rows = append(log.Rows, TransactionRow{
			Date:      trn.TradeDate.String(),
			Type:      trn.Type.String(),
			Asset:     trn.AssetID,
			CashAsset: trn.CashAssetID,
			Quantity:  trn.Quantity.String(),
			Amount:    trn.TradeAmount.String(),
		})
	}
	return log
}
