package performance

import "fmt"

// costCalculation tracks the cost of the shares currently held: FIFO cost
// from discrete lots and moving-average cost from a running pair, along
// with the fees and taxes paid on the way. It is a FIFO walk parallel to
// the capital gains engine, minus the gain computation.
//
// It also annotates every dividend payment with the cost basis and total
// shares held at payment time, enabling personal-yield calculations
// downstream.
type costCalculation struct {
	calcBase
	noopCalculation

	lots lotList

	movingShares Quantity
	movingCost   Money

	fees  Money // net fees paid, refunds deducted
	taxes Money // net taxes paid, refunds deducted
}

func (c *costCalculation) onValuationAtStart(v *valuationAtStart) error {
	value := c.conv.Convert(DateOf(v.at), v.value)
	c.lots.push(&lot{
		date:      v.at,
		portfolio: v.portfolio,
		shares:    v.shares,
		original:  v.shares,
		value:     value,
		fromStart: true,
	})
	c.movingShares = c.movingShares.Add(v.shares)
	c.movingCost = c.movingCost.Add(value)
	return nil
}

func (c *costCalculation) onTransaction(t *transactionItem) error {
	tx := t.tx
	on := DateOf(tx.When)
	switch tx.Type {
	case Buy, DeliveryInbound:
		value := c.conv.Convert(on, tx.Amount)
		c.lots.push(&lot{
			date:      tx.When,
			portfolio: t.portfolio,
			shares:    tx.Shares,
			original:  tx.Shares,
			value:     value,
		})
		c.movingShares = c.movingShares.Add(tx.Shares)
		c.movingCost = c.movingCost.Add(value)
		c.fees = c.fees.Add(c.conv.Convert(on, tx.Fees))
		c.taxes = c.taxes.Add(c.conv.Convert(on, tx.Taxes))

	case Sell, DeliveryOutbound:
		// The capital gains engine warns on the same oversell, the cost
		// walk just floors at empty.
		c.lots.consume(t.portfolio, tx.Shares)
		if c.movingShares.LessThan(tx.Shares) {
			c.movingShares, c.movingCost = Quantity{}, Money{}
		} else if tx.Shares.Equal(c.movingShares) {
			c.movingShares, c.movingCost = Quantity{}, Money{}
		} else {
			costOfSale := c.movingCost.Split(tx.Shares, c.movingShares)
			c.movingShares = c.movingShares.Sub(tx.Shares)
			c.movingCost = c.movingCost.Sub(costOfSale)
		}
		c.fees = c.fees.Add(c.conv.Convert(on, tx.Fees))
		c.taxes = c.taxes.Add(c.conv.Convert(on, tx.Taxes))

	case TransferIn:
		portions, _ := c.lots.consume(t.counterpart, tx.Shares)
		c.lots.relocate(t.portfolio, portions)

	case TransferOut:
		// handled entirely by the paired transfer-in.

	default:
		return fmt.Errorf("unsupported portfolio transaction type %q", tx.Type)
	}
	return nil
}

func (c *costCalculation) onCash(item *cashItem) error {
	tx := item.tx
	amount := c.conv.Convert(DateOf(tx.When), tx.Amount)
	switch tx.Type {
	case Fees:
		c.fees = c.fees.Add(amount)
	case FeesRefund:
		c.fees = c.fees.Sub(amount)
	case Taxes:
		c.taxes = c.taxes.Add(amount)
	case TaxRefund:
		c.taxes = c.taxes.Sub(amount)
	case Interest, InterestCharge:
		// cash flows only, no cost impact.
	default:
		return fmt.Errorf("unsupported account transaction type %q", tx.Type)
	}
	return nil
}

func (c *costCalculation) onDividend(d *dividendItem) error {
	d.fifoCost = c.lots.totalValue()
	d.movingAvgCost = c.movingCost
	d.totalShares = c.lots.totalShares()
	return nil
}

// SharesHeld returns the quantity currently held.
func (c *costCalculation) SharesHeld() Quantity { return c.lots.totalShares() }

// FIFOCost returns the FIFO cost of the shares currently held.
func (c *costCalculation) FIFOCost() Money { return c.lots.totalValue() }

// MovingAverageCost returns the moving-average cost of the shares currently held.
func (c *costCalculation) MovingAverageCost() Money { return c.movingCost }

// NetFees returns the fees paid inside the interval, net of refunds.
func (c *costCalculation) NetFees() Money { return c.fees }

// NetTaxes returns the taxes paid inside the interval, net of refunds.
func (c *costCalculation) NetTaxes() Money { return c.taxes }
