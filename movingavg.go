package performance

import "fmt"

// movingAverageGains is the moving-average capital gains engine, a simpler
// alternative to the FIFO engine: it maintains a single running
// (shares, cost) pair instead of discrete lots.
//
// This method does not attribute a forex component: realized and unrealized
// records always carry a zero Forex. Callers needing the exact forex split
// must use the FIFO engine. The asymmetry is deliberate and downstream
// consumers rely on it.
type movingAverageGains struct {
	calcBase
	noopCalculation

	held Quantity
	cost Money // running cost basis in term currency

	realized   GainsRecord
	unrealized GainsRecord

	endCount int
	endValue Money
}

func (c *movingAverageGains) onValuationAtStart(v *valuationAtStart) error {
	c.held = c.held.Add(v.shares)
	c.cost = c.cost.Add(c.conv.Convert(DateOf(v.at), v.value))
	return nil
}

func (c *movingAverageGains) onTransaction(t *transactionItem) error {
	tx := t.tx
	switch tx.Type {
	case Buy, DeliveryInbound:
		c.held = c.held.Add(tx.Shares)
		c.cost = c.cost.Add(c.conv.Convert(DateOf(tx.When), tx.Amount))

	case Sell, DeliveryOutbound:
		proceeds := c.conv.Convert(DateOf(tx.When), tx.Amount)
		if c.held.LessThan(tx.Shares) {
			c.warns.oversell(c.sec, tx.When, tx.Shares.Sub(c.held))
			c.realized.add(proceeds.Sub(c.cost), Money{})
			c.held, c.cost = Quantity{}, Money{}
			return nil
		}
		var costOfSale Money
		if tx.Shares.Equal(c.held) {
			costOfSale = c.cost
		} else {
			costOfSale = c.cost.Split(tx.Shares, c.held)
		}
		c.realized.add(proceeds.Sub(costOfSale), Money{})
		c.held = c.held.Sub(tx.Shares)
		c.cost = c.cost.Sub(costOfSale)

	case TransferIn, TransferOut:
		// the running average is client-wide, transfers are net zero.

	default:
		return fmt.Errorf("unsupported portfolio transaction type %q", tx.Type)
	}
	return nil
}

func (c *movingAverageGains) onValuationAtEnd(v *valuationAtEnd) error {
	c.endCount++
	c.endValue = c.endValue.Add(c.conv.Convert(DateOf(v.at), v.value))
	return nil
}

func (c *movingAverageGains) finish() error {
	if c.endCount == 0 {
		return nil
	}
	c.unrealized.add(c.endValue.Sub(c.cost), Money{})
	return nil
}

// Realized returns the gains crystallized by disposals inside the interval.
func (c *movingAverageGains) Realized() GainsRecord { return c.realized }

// Unrealized returns the mark-to-market gain at the interval end.
func (c *movingAverageGains) Unrealized() GainsRecord { return c.unrealized }
