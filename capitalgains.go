package performance

import (
	"fmt"
	"time"
)

// GainsRecord accumulates capital gains with the foreign-exchange component
// split out from the local price movement. It is additive: lots report into
// it as they are consumed or revalued.
type GainsRecord struct {
	Local Money // gain attributable to price movement in the security's currency
	Forex Money // gain attributable to exchange-rate movement
}

func (r *GainsRecord) add(local, forex Money) {
	r.Local = r.Local.Add(local)
	r.Forex = r.Forex.Add(forex)
}

// Total returns the full gain, local plus forex. The split is exact by
// construction: the local component is defined as the total minus the forex
// component.
func (r GainsRecord) Total() Money { return r.Local.Add(r.Forex) }

// capitalGains is the FIFO capital gains engine. It maintains the open lots
// of one security, matches disposals against them in creation order within
// the owning portfolio, relocates lots on transfers, and accumulates
// realized and unrealized gains in the term currency.
type capitalGains struct {
	calcBase
	noopCalculation

	lots       lotList
	realized   GainsRecord
	unrealized GainsRecord

	endCount int
	endAt    time.Time
	endValue Money // summed converted market value at interval end
}

func (c *capitalGains) onValuationAtStart(v *valuationAtStart) error {
	value := c.conv.Convert(DateOf(v.at), v.value)
	c.lots.push(&lot{
		date:      v.at,
		portfolio: v.portfolio,
		shares:    v.shares,
		original:  v.shares,
		value:     value,
		fromStart: true,
	})
	return nil
}

func (c *capitalGains) onTransaction(t *transactionItem) error {
	tx := t.tx
	switch tx.Type {
	case Buy, DeliveryInbound:
		value := c.conv.Convert(DateOf(tx.When), tx.Amount)
		c.lots.push(&lot{
			date:      tx.When,
			portfolio: t.portfolio,
			shares:    tx.Shares,
			original:  tx.Shares,
			value:     value,
		})

	case Sell, DeliveryOutbound:
		proceeds := c.conv.Convert(DateOf(tx.When), tx.Amount)
		portions, short := c.lots.consume(t.portfolio, tx.Shares)
		for _, p := range portions {
			end := proceeds.Split(p.shares, tx.Shares)
			gain := end.Sub(p.cost)
			forex := c.forexComponent(p.cost, p.lot.date, tx.When)
			c.realized.add(gain.Sub(forex), forex)
		}
		if short.IsPositive() {
			c.warns.oversell(c.sec, tx.When, short)
		}

	case TransferIn:
		portions, short := c.lots.consume(t.counterpart, tx.Shares)
		c.lots.relocate(t.portfolio, portions)
		if short.IsPositive() {
			c.warns.transferShortfall(c.sec, tx.When, short)
		}

	case TransferOut:
		// handled entirely by the paired transfer-in.

	default:
		return fmt.Errorf("unsupported portfolio transaction type %q", tx.Type)
	}
	return nil
}

func (c *capitalGains) onValuationAtEnd(v *valuationAtEnd) error {
	c.endCount++
	c.endAt = v.at
	c.endValue = c.endValue.Add(c.conv.Convert(DateOf(v.at), v.value))
	return nil
}

func (c *capitalGains) finish() error {
	if c.endCount == 0 {
		// Position fully closed before the interval end. Residual lot value
		// indicates an unresolved oversell or undersell upstream.
		if residual := c.lots.totalValue(); !residual.IsZero() {
			c.warns.residualValue(c.sec, c.lastLotDate(), residual)
		}
		return nil
	}

	c.lots.squash()
	start := c.lots.totalValue()
	total := c.endValue.Sub(start)

	var forex Money
	for _, x := range c.lots.open() {
		forex = forex.Add(c.forexComponent(x.value, x.date, c.endAt))
	}
	c.unrealized.add(total.Sub(forex), forex)
	return nil
}

// forexComponent isolates the currency movement in a term-currency amount
// held from acquisition to disposal: the amount is converted into the
// security's currency at the acquisition-date rate and back at the
// disposal-date rate; the difference from the original is the forex gain.
func (c *capitalGains) forexComponent(start Money, acquired, disposed time.Time) Money {
	if c.sec.Currency() == c.conv.Term() {
		return Money{}
	}
	acqRate := c.conv.Rate(DateOf(acquired), c.sec.Currency())
	if acqRate.IsZero() {
		return Money{}
	}
	inSecurity := start.value.Div(acqRate)
	back := inSecurity.Mul(c.conv.Rate(DateOf(disposed), c.sec.Currency()))
	return M(back, c.conv.Term()).Sub(start)
}

func (c *capitalGains) lastLotDate() time.Time {
	var last time.Time
	for _, x := range c.lots.lots {
		if x.date.After(last) {
			last = x.date
		}
	}
	return last
}

// Realized returns the gains crystallized by disposals inside the interval.
func (c *capitalGains) Realized() GainsRecord { return c.realized }

// Unrealized returns the mark-to-market gains on the lots still open at the
// interval end.
func (c *capitalGains) Unrealized() GainsRecord { return c.unrealized }

// MarketValue returns the converted market value at the interval end.
func (c *capitalGains) MarketValue() Money { return c.endValue }
