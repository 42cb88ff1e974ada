package performance

import "time"

// dividendCalculation sums dividend payments, counts them, tracks the first
// and last payment dates, and classifies the payment periodicity from the
// average gap between payments. Payments less than 30 days apart are folded
// together, corrections and reversals are usually issued within days of the
// payment they amend.
type dividendCalculation struct {
	calcBase
	noopCalculation

	sum   Money // gross, converted
	count int
	first time.Time
	last  time.Time
	gaps  []int // significant gaps between payments, in days
	prev  time.Time
}

func (c *dividendCalculation) onDividend(d *dividendItem) error {
	when := d.tx.When
	c.sum = c.sum.Add(c.conv.Convert(DateOf(when), d.gross))
	c.count++
	c.last = when
	if c.first.IsZero() {
		c.first = when
	}
	if c.prev.IsZero() {
		c.prev = when
		return nil
	}
	if days := DateOf(when).Sub(DateOf(c.prev)); days >= 30 {
		c.gaps = append(c.gaps, days)
		c.prev = when
	}
	return nil
}

// Sum returns the gross dividends received inside the interval, converted.
func (c *dividendCalculation) Sum() Money { return c.sum }

// Count returns the number of dividend payments inside the interval.
func (c *dividendCalculation) Count() int { return c.count }

// FirstPayment returns the date of the first payment, zero when none.
func (c *dividendCalculation) FirstPayment() time.Time { return c.first }

// LastPayment returns the date of the last payment, zero when none.
func (c *dividendCalculation) LastPayment() time.Time { return c.last }

// Periodicity classifies the regularity of the payments.
func (c *dividendCalculation) Periodicity() Periodicity {
	if c.count == 0 {
		return NoDividends
	}
	if len(c.gaps) == 0 {
		return UnknownPeriodicity
	}
	var total int
	for _, g := range c.gaps {
		total += g
	}
	average := total / len(c.gaps)
	switch {
	case average > 300:
		return Annual
	case average > 150:
		return SemiAnnual
	case average > 75:
		return Quarterly
	default:
		return UnknownPeriodicity
	}
}
