package performance

import "fmt"

// deltaCalculation computes the absolute gain of the position over the
// interval: the signed sum of all cash flows, bracketed by the boundary
// valuations. Purchases count negative, sales and dividends positive;
// transfers are excluded, they are net zero by construction.
type deltaCalculation struct {
	calcBase
	noopCalculation

	delta Money
}

func (c *deltaCalculation) onValuationAtStart(v *valuationAtStart) error {
	c.delta = c.delta.Sub(c.conv.Convert(DateOf(v.at), v.value))
	return nil
}

func (c *deltaCalculation) onValuationAtEnd(v *valuationAtEnd) error {
	c.delta = c.delta.Add(c.conv.Convert(DateOf(v.at), v.value))
	return nil
}

func (c *deltaCalculation) onTransaction(t *transactionItem) error {
	tx := t.tx
	amount := c.conv.Convert(DateOf(tx.When), tx.Amount)
	switch tx.Type {
	case Buy, DeliveryInbound:
		c.delta = c.delta.Sub(amount)
	case Sell, DeliveryOutbound:
		c.delta = c.delta.Add(amount)
	case TransferIn, TransferOut:
		// net zero by construction.
	default:
		return fmt.Errorf("unsupported portfolio transaction type %q", tx.Type)
	}
	return nil
}

func (c *deltaCalculation) onCash(item *cashItem) error {
	tx := item.tx
	amount := c.conv.Convert(DateOf(tx.When), tx.Amount)
	switch tx.Type {
	case Interest, TaxRefund, FeesRefund:
		c.delta = c.delta.Add(amount)
	case InterestCharge, Taxes, Fees:
		c.delta = c.delta.Sub(amount)
	default:
		return fmt.Errorf("unsupported account transaction type %q", tx.Type)
	}
	return nil
}

func (c *deltaCalculation) onDividend(d *dividendItem) error {
	c.delta = c.delta.Add(c.conv.Convert(DateOf(d.tx.When), d.tx.Amount))
	return nil
}

// Delta returns the absolute gain over the interval.
func (c *deltaCalculation) Delta() Money { return c.delta }
