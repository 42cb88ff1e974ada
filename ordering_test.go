package performance

import "testing"

func TestSortTimeline_PinsValuations(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")

	// the boundary valuations carry awkward timestamps on purpose: the start
	// valuation is dated after the buy, the end valuation before the sell.
	start := &valuationAtStart{portfolio: p, at: on(2025, 1, 5), shares: Q(10), value: EUR(1000)}
	end := &valuationAtEnd{portfolio: p, at: on(2025, 2, 1), shares: Q(5), value: EUR(600)}
	buy := portfolioTx(p, on(2025, 1, 2), Buy, sec, 10, 1000, "EUR")
	sell := portfolioTx(p, on(2025, 3, 1), Sell, sec, 5, 600, "EUR")

	items := []lineItem{sell, end, buy, start}
	sortTimeline(items)

	if items[0] != start {
		t.Errorf("items[0] = %T, want the start valuation first", items[0])
	}
	if items[len(items)-1] != end {
		t.Errorf("items[last] = %T, want the end valuation last", items[len(items)-1])
	}
	if items[1] != buy || items[2] != sell {
		t.Errorf("middle = %T, %T, want buy then sell", items[1], items[2])
	}
}

func TestSortTimeline_InboundBeforeOutboundOnSameDay(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")
	day := on(2025, 3, 3)

	sell := portfolioTx(p, day, Sell, sec, 10, 1100, "EUR")
	buy := portfolioTx(p, day, Buy, sec, 10, 1000, "EUR")
	cash := accountCash(day, Fees, 5)

	items := []lineItem{sell, cash, buy}
	sortTimeline(items)

	if items[0] != buy {
		t.Errorf("items[0] = %T, want the buy", items[0])
	}
	if items[1] != cash {
		t.Errorf("items[1] = %T, want the neutral cash item", items[1])
	}
	if items[2] != sell {
		t.Errorf("items[2] = %T, want the sell", items[2])
	}
}

func TestSortTimeline_Stable(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")
	day := on(2025, 3, 3)

	first := portfolioTx(p, day, Buy, sec, 1, 100, "EUR")
	second := portfolioTx(p, day, Buy, sec, 2, 200, "EUR")
	third := portfolioTx(p, day, Buy, sec, 3, 300, "EUR")

	items := []lineItem{first, second, third}
	sortTimeline(items)

	// fully tied items keep insertion order.
	if items[0] != first || items[1] != second || items[2] != third {
		t.Errorf("order = %v, %v, %v shares, want insertion order",
			items[0].(*transactionItem).tx.Shares,
			items[1].(*transactionItem).tx.Shares,
			items[2].(*transactionItem).tx.Shares)
	}
}

func TestSortTimeline_ByTimestamp(t *testing.T) {
	sec := testSecurity("ACME", "EUR")
	p := NewPortfolio("broker")

	late := portfolioTx(p, on(2025, 5, 1), Sell, sec, 1, 100, "EUR")
	early := portfolioTx(p, on(2025, 1, 1), Sell, sec, 1, 100, "EUR")

	items := []lineItem{late, early}
	sortTimeline(items)

	if items[0] != early {
		t.Errorf("items[0] dated %v, want the earlier sell", items[0].when())
	}
}
