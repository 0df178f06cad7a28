package renderer

import (
	"github.com/avrel/posbook"
)

// HoldingRow is one position, pre-formatted for the markdown table.
type HoldingRow struct {
	Asset          string
	Quantity       string
	Price          string
	MarketValue    string
	CostBasis      string
	AverageCost    string
	UnrealisedGain string
	RealisedGain   string
	Dividends      string
	TotalGain      string
	Return         string
	ClosedOn       string
}

// HoldingTotals carries portfolio-wide sums. They only exist when every row is
// denominated in the same currency, which the trade view does not guarantee.
type HoldingTotals struct {
	MarketValue    string
	CostBasis      string
	UnrealisedGain string
	TotalGain      string
}

// HoldingReport is the view-model behind the holding markdown report.
type HoldingReport struct {
	Date   posbook.Date
	View   string
	Open   []HoldingRow
	Closed []HoldingRow
	Totals *HoldingTotals
}

// NewHoldingReport builds a report from valued positions, reading every
// position in the given currency view.
func NewHoldingReport(positions *posbook.Positions, view posbook.CurrencyView, on posbook.Date) *HoldingReport {
	report := &HoldingReport{Date: on, View: view.String()}

	sameCurrency := true
	currency := ""
	var marketValue, costBasis, unrealised, totalGain posbook.Money

	for p := range positions.All() {
		mv := p.View(view)
		if mv == nil {
			continue
		}
		if currency == "" {
			currency = mv.Currency
		} else if currency != mv.Currency {
			sameCurrency = false
		}

		if p.IsClosed() {
			report.Closed = append(report.Closed, HoldingRow{
				Asset:        p.AssetID,
				RealisedGain: mv.RealisedGain.SignedString(),
				Dividends:    mv.Dividends.String(),
				TotalGain:    mv.TotalGain.SignedString(),
				ClosedOn:     p.Dates.Closed.String(),
			})
			continue
		}

		report.Open = append(report.Open, HoldingRow{
			Asset:          p.AssetID,
			Quantity:       p.Total().String(),
			Price:          mv.Price.String(),
			MarketValue:    mv.MarketValue.String(),
			CostBasis:      mv.CostBasis.String(),
			AverageCost:    mv.AverageCost.String(),
			UnrealisedGain: mv.UnrealisedGain.SignedString(),
			RealisedGain:   mv.RealisedGain.SignedString(),
			Dividends:      mv.Dividends.String(),
			TotalGain:      mv.TotalGain.SignedString(),
			Return:         mv.Return().SignedString(),
		})
		if sameCurrency {
			marketValue = marketValue.Add(mv.MarketValue)
			costBasis = costBasis.Add(mv.CostBasis)
			unrealised = unrealised.Add(mv.UnrealisedGain)
			totalGain = totalGain.Add(mv.TotalGain)
		}
	}

	if sameCurrency && len(report.Open) > 0 {
		report.Totals = &HoldingTotals{
			MarketValue:    marketValue.String(),
			CostBasis:      costBasis.String(),
			UnrealisedGain: unrealised.SignedString(),
			TotalGain:      totalGain.SignedString(),
		}
	}
	return report
}
