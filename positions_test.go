package posbook

import "testing"

func TestPositions_GetSeedsAsOf(t *testing.T) {
	positions := NewPositions(NewPortfolio("TEST", "USD", "USD"))

	p := positions.Get("AAPL", day(3))
	if p.AsOf != day(3) {
		t.Errorf("AsOf = %s, want %s", p.AsOf, day(3))
	}

	// A later reference returns the same position, AsOf untouched.
	again := positions.Get("AAPL", day(9))
	if again != p {
		t.Error("Get returned a new position for an existing asset")
	}
	if again.AsOf != day(3) {
		t.Errorf("AsOf after second Get = %s, want %s", again.AsOf, day(3))
	}
}

func TestPositions_FindAndAll(t *testing.T) {
	positions := NewPositions(NewPortfolio("TEST", "USD", "USD"))

	if _, ok := positions.Find("GHOST"); ok {
		t.Error("Find reported a position that was never created")
	}

	positions.Get("ZZZ", day(1))
	positions.Get("AAA", day(1))
	positions.Get("MMM", day(1))
	if positions.Len() != 3 {
		t.Fatalf("Len = %d, want 3", positions.Len())
	}

	var order []string
	for p := range positions.All() {
		order = append(order, p.AssetID)
	}
	if order[0] != "AAA" || order[1] != "MMM" || order[2] != "ZZZ" {
		t.Errorf("All order = %v, want sorted by asset", order)
	}
}

func TestResolveCurrency(t *testing.T) {
	portfolio := NewPortfolio("TEST", "SGD", "EUR")

	if got := ResolveCurrency(TradeView, portfolio, "USD"); got != "USD" {
		t.Errorf("trade = %q, want USD", got)
	}
	if got := ResolveCurrency(BaseView, portfolio, "USD"); got != "EUR" {
		t.Errorf("base = %q, want EUR", got)
	}
	if got := ResolveCurrency(PortfolioView, portfolio, "USD"); got != "SGD" {
		t.Errorf("portfolio = %q, want SGD", got)
	}
}
