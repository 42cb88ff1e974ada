package performance

import (
	"time"

	"github.com/shopspring/decimal"
)

// EUR is a helper for tests to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// on is a helper for tests to create a timestamp at noon UTC of a day.
func on(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// testSecurity creates a security and panics on error, for fixtures.
func testSecurity(name, currency string) *Security {
	sec, err := NewSecurity(name, "", currency)
	if err != nil {
		panic(err)
	}
	return sec
}

// eurTable builds a EUR rate table with the given USD series.
func eurTable(usd map[Date]float64) *RateTable {
	t := NewRateTable("EUR")
	for d, r := range usd {
		t.Add("USD", d, decimal.NewFromFloat(r))
	}
	return t
}

// accountCash wraps a security-tagged cash movement for hand-built timelines.
func accountCash(when time.Time, typ AccountTransactionType, amount float64) *cashItem {
	return &cashItem{tx: &AccountTransaction{When: when, Type: typ, Amount: EUR(amount)}}
}

// dividendOf builds a dividend payment from its net amount, withheld tax and
// the share count it was based on.
func dividendOf(when time.Time, net, withheld, shares float64) *dividendItem {
	return newDividendItem(&AccountTransaction{
		When:        when,
		Type:        Dividends,
		Amount:      EUR(net),
		TaxWithheld: EUR(withheld),
		Shares:      Q(shares),
	}, nil)
}

// mapPositions is a PositionProvider backed by fixed maps.
type mapPositions struct {
	positions map[*Portfolio]map[Date][]Position
}

func (m *mapPositions) PositionsAt(p *Portfolio, d Date) []Position {
	return m.positions[p][d]
}

// run executes one calculation over a hand-built timeline.
func run(c calculation, sec *Security, conv CurrencyConverter, warns *Warnings, items []lineItem) error {
	sortTimeline(items)
	return visitTimeline(c, sec, conv, warns, items)
}
