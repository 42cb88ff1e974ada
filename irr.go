package performance

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// irrCalculation collects the signed cash flows of the position, including
// the boundary valuations, and solves for the internal rate of return: the
// rate r with Σ flow_i / (1+r)^(days_i/365) = 0.
type irrCalculation struct {
	calcBase
	noopCalculation

	flows []cashflow
	rate  float64
}

type cashflow struct {
	when   time.Time
	amount float64
}

func (c *irrCalculation) collect(when time.Time, amount Money, sign float64) {
	v := c.conv.Convert(DateOf(when), amount).InexactFloat64()
	c.flows = append(c.flows, cashflow{when: when, amount: sign * v})
}

func (c *irrCalculation) onValuationAtStart(v *valuationAtStart) error {
	c.collect(v.at, v.value, -1)
	return nil
}

func (c *irrCalculation) onValuationAtEnd(v *valuationAtEnd) error {
	c.collect(v.at, v.value, +1)
	return nil
}

func (c *irrCalculation) onTransaction(t *transactionItem) error {
	tx := t.tx
	switch tx.Type {
	case Buy, DeliveryInbound:
		c.collect(tx.When, tx.Amount, -1)
	case Sell, DeliveryOutbound:
		c.collect(tx.When, tx.Amount, +1)
	case TransferIn, TransferOut:
		// net zero by construction.
	default:
		return fmt.Errorf("unsupported portfolio transaction type %q", tx.Type)
	}
	return nil
}

func (c *irrCalculation) onCash(item *cashItem) error {
	tx := item.tx
	switch tx.Type {
	case Interest, TaxRefund, FeesRefund:
		c.collect(tx.When, tx.Amount, +1)
	case InterestCharge, Taxes, Fees:
		c.collect(tx.When, tx.Amount, -1)
	default:
		return fmt.Errorf("unsupported account transaction type %q", tx.Type)
	}
	return nil
}

func (c *irrCalculation) onDividend(d *dividendItem) error {
	c.collect(d.tx.When, d.tx.Amount, +1)
	return nil
}

func (c *irrCalculation) finish() error {
	c.rate = xirr(c.flows)
	return nil
}

// Rate returns the internal rate of return, 0 when it is undefined.
func (c *irrCalculation) Rate() float64 { return c.rate }

// xirr solves for the rate zeroing the net present value of dated cash
// flows. Newton-Raphson from a 10% guess, falling back to bisection when
// the iteration leaves the domain or fails to converge.
func xirr(flows []cashflow) float64 {
	if len(flows) < 2 {
		return 0
	}
	sorted := make([]cashflow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].when.Before(sorted[j].when) })

	var positive, negative bool
	for _, f := range sorted {
		positive = positive || f.amount > 0
		negative = negative || f.amount < 0
	}
	if !positive || !negative {
		return 0
	}

	const (
		maxIterations = 100
		tolerance     = 1e-9
	)
	rate := 0.1
	for i := 0; i < maxIterations; i++ {
		value := npv(sorted, rate)
		derivative := npvDerivative(sorted, rate)
		if math.Abs(derivative) < 1e-12 {
			break
		}
		next := rate - value/derivative
		if math.IsNaN(next) || next <= -1 {
			break
		}
		if math.Abs(next-rate) < tolerance {
			return next
		}
		rate = next
	}
	return bisectXIRR(sorted)
}

func npv(flows []cashflow, rate float64) float64 {
	base := flows[0].when
	var total float64
	for _, f := range flows {
		years := f.when.Sub(base).Hours() / (24 * 365)
		total += f.amount / math.Pow(1+rate, years)
	}
	return total
}

func npvDerivative(flows []cashflow, rate float64) float64 {
	base := flows[0].when
	var total float64
	for _, f := range flows {
		years := f.when.Sub(base).Hours() / (24 * 365)
		if years > 0 {
			total -= years * f.amount / math.Pow(1+rate, years+1)
		}
	}
	return total
}

func bisectXIRR(flows []cashflow) float64 {
	lo, hi := -0.9999, 10.0
	flo, fhi := npv(flows, lo), npv(flows, hi)
	if flo*fhi > 0 {
		return 0
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fmid := npv(flows, mid)
		if math.Abs(fmid) < 1e-9 || hi-lo < 1e-12 {
			return mid
		}
		if flo*fmid < 0 {
			hi, fhi = mid, fmid
		} else {
			lo, flo = mid, fmid
		}
	}
	return (lo + hi) / 2
}
