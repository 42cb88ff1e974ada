package performance

import "time"

// lineItem represents a single entry of a security's timeline.
// It is the lowest-level, immutable fact the engines consume. The closed
// set of implementations is transactionItem, cashItem, dividendItem,
// valuationAtStart and valuationAtEnd; visitTimeline dispatches over them
// exhaustively.
type lineItem interface {
	when() time.Time
}

// transactionItem wraps a position-changing transaction of a portfolio.
type transactionItem struct {
	tx        *PortfolioTransaction
	portfolio *Portfolio
	// counterpart is the other portfolio of a transfer, resolved from the
	// shared cross-entry reference. Nil for every other transaction type.
	counterpart *Portfolio
}

func (t *transactionItem) when() time.Time { return t.tx.When }

// cashItem wraps a security-tagged cash movement of an account
// (interest, fees, taxes and their refunds).
type cashItem struct {
	tx      *AccountTransaction
	account *Account
}

func (c *cashItem) when() time.Time { return c.tx.When }

// dividendItem is a cash item for a dividend payment. It additionally
// carries the gross value and per-share amount, and is annotated by the
// cost engine with the cost basis and total shares held at payment time,
// from which the personal yield is derived.
type dividendItem struct {
	cashItem
	gross    Money // net amount plus withheld tax
	perShare Money // zero when the payment carries no share count

	// set by the cost engine.
	fifoCost      Money
	movingAvgCost Money
	totalShares   Quantity
}

// newDividendItem derives the gross and per-share values of a dividend payment.
func newDividendItem(tx *AccountTransaction, account *Account) *dividendItem {
	d := &dividendItem{cashItem: cashItem{tx: tx, account: account}}
	d.gross = tx.Amount.Add(tx.TaxWithheld)
	if tx.Shares.IsPositive() {
		d.perShare = d.gross.Div(tx.Shares)
	}
	return d
}

// valuationAtStart is the synthetic mark-to-market value of a portfolio's
// position at the interval start. It seeds the FIFO engine with the lot
// held before the interval opened.
type valuationAtStart struct {
	portfolio *Portfolio
	at        time.Time
	shares    Quantity
	value     Money // in the security's currency
}

func (v *valuationAtStart) when() time.Time { return v.at }

// valuationAtEnd is the synthetic mark-to-market value of a portfolio's
// position at the interval end.
type valuationAtEnd struct {
	portfolio *Portfolio
	at        time.Time
	shares    Quantity
	value     Money // in the security's currency
}

func (v *valuationAtEnd) when() time.Time { return v.at }
