package performance

import "testing"

func TestCostCalculation_FIFOAndMovingAverage(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")
	conv := NewRateTable("EUR")
	warns := NewWarnings()

	// after selling 5, FIFO keeps 5 cheap shares plus the full second lot
	// while the running average prices every remaining share the same.
	items := []lineItem{
		portfolioTx(p, on(2025, 1, 1), Buy, sec, 10, 1000, "EUR"),
		portfolioTx(p, on(2025, 1, 5), Buy, sec, 10, 1200, "EUR"),
		portfolioTx(p, on(2025, 1, 10), Sell, sec, 5, 700, "EUR"),
	}

	var c costCalculation
	if err := run(&c, sec, conv, warns, items); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if got, want := c.SharesHeld(), Q(15); !got.Equal(want) {
		t.Errorf("SharesHeld() = %v, want %v", got, want)
	}
	if got, want := c.FIFOCost(), EUR(1700); !got.Equal(want) {
		t.Errorf("FIFOCost() = %v, want %v", got, want)
	}
	if got, want := c.MovingAverageCost(), EUR(1650); !got.Equal(want) {
		t.Errorf("MovingAverageCost() = %v, want %v", got, want)
	}
}

func TestCostCalculation_NetFeesAndTaxes(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")
	conv := NewRateTable("EUR")
	warns := NewWarnings()

	buy := portfolioTx(p, on(2025, 1, 1), Buy, sec, 10, 1007, "EUR")
	buy.tx.Fees = EUR(5)
	buy.tx.Taxes = EUR(2)
	sell := portfolioTx(p, on(2025, 2, 1), Sell, sec, 5, 597, "EUR")
	sell.tx.Fees = EUR(3)

	items := []lineItem{
		buy,
		sell,
		accountCash(on(2025, 3, 1), Fees, 10),
		accountCash(on(2025, 3, 15), FeesRefund, 4),
		accountCash(on(2025, 4, 1), Taxes, 20),
		accountCash(on(2025, 4, 15), TaxRefund, 5),
		accountCash(on(2025, 5, 1), Interest, 8),
	}

	var c costCalculation
	if err := run(&c, sec, conv, warns, items); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if got, want := c.NetFees(), EUR(14); !got.Equal(want) {
		t.Errorf("NetFees() = %v, want %v", got, want)
	}
	if got, want := c.NetTaxes(), EUR(17); !got.Equal(want) {
		t.Errorf("NetTaxes() = %v, want %v", got, want)
	}
}

func TestCostCalculation_AnnotatesDividends(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")
	conv := NewRateTable("EUR")
	warns := NewWarnings()

	div := dividendOf(on(2025, 3, 1), 80, 20, 10)
	items := []lineItem{
		portfolioTx(p, on(2025, 1, 1), Buy, sec, 10, 1000, "EUR"),
		div,
		portfolioTx(p, on(2025, 4, 1), Sell, sec, 10, 1100, "EUR"),
	}

	var c costCalculation
	if err := run(&c, sec, conv, warns, items); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// the payment is stamped with the basis held when it was earned, not
	// with the end-of-interval state.
	if got, want := div.fifoCost, EUR(1000); !got.Equal(want) {
		t.Errorf("dividend fifoCost = %v, want %v", got, want)
	}
	if got, want := div.movingAvgCost, EUR(1000); !got.Equal(want) {
		t.Errorf("dividend movingAvgCost = %v, want %v", got, want)
	}
	if got, want := div.totalShares, Q(10); !got.Equal(want) {
		t.Errorf("dividend totalShares = %v, want %v", got, want)
	}
	if got, want := div.gross, EUR(100); !got.Equal(want) {
		t.Errorf("dividend gross = %v, want %v", got, want)
	}
	if got, want := div.perShare, EUR(10); !got.Equal(want) {
		t.Errorf("dividend perShare = %v, want %v", got, want)
	}
	if !c.FIFOCost().IsZero() {
		t.Errorf("FIFOCost() = %v, want zero after closing the position", c.FIFOCost())
	}
}

func TestCostCalculation_TransferKeepsCost(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	a := NewPortfolio("a")
	b := NewPortfolio("b")
	conv := NewRateTable("EUR")
	warns := NewWarnings()

	in := portfolioTx(b, on(2025, 2, 1), TransferIn, sec, 4, 0, "EUR")
	in.counterpart = a

	items := []lineItem{
		portfolioTx(a, on(2025, 1, 1), Buy, sec, 10, 1000, "EUR"),
		portfolioTx(a, on(2025, 2, 1), TransferOut, sec, 4, 0, "EUR"),
		in,
	}

	var c costCalculation
	if err := run(&c, sec, conv, warns, items); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// cost moved between portfolios, nothing created or destroyed.
	if got, want := c.SharesHeld(), Q(10); !got.Equal(want) {
		t.Errorf("SharesHeld() = %v, want %v", got, want)
	}
	if got, want := c.FIFOCost(), EUR(1000); !got.Equal(want) {
		t.Errorf("FIFOCost() = %v, want %v", got, want)
	}
}

func TestCostCalculation_OversellFloorsAtZero(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")
	conv := NewRateTable("EUR")
	warns := NewWarnings()

	items := []lineItem{
		portfolioTx(p, on(2025, 1, 1), Buy, sec, 10, 1000, "EUR"),
		portfolioTx(p, on(2025, 1, 10), Sell, sec, 15, 1600, "EUR"),
	}

	var c costCalculation
	if err := run(&c, sec, conv, warns, items); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !c.SharesHeld().IsZero() {
		t.Errorf("SharesHeld() = %v, want zero", c.SharesHeld())
	}
	if !c.FIFOCost().IsZero() {
		t.Errorf("FIFOCost() = %v, want zero", c.FIFOCost())
	}
	if !c.MovingAverageCost().IsZero() {
		t.Errorf("MovingAverageCost() = %v, want zero", c.MovingAverageCost())
	}
	// the gains engine owns the warning for this oversell, the cost walk
	// stays silent.
	if len(warns.List()) != 0 {
		t.Errorf("warnings = %v, want none", warns.List())
	}
}
