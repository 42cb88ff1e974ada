package performance

import "fmt"

// sharesCalculation keeps the running sum of shares held: purchases and
// inbound deliveries add, sales and outbound deliveries subtract.
// Transfers are excluded, they cancel pairwise at the owner level.
type sharesCalculation struct {
	calcBase
	noopCalculation

	held Quantity
}

func (c *sharesCalculation) onValuationAtStart(v *valuationAtStart) error {
	c.held = c.held.Add(v.shares)
	return nil
}

func (c *sharesCalculation) onTransaction(t *transactionItem) error {
	switch t.tx.Type {
	case Buy, DeliveryInbound:
		c.held = c.held.Add(t.tx.Shares)
	case Sell, DeliveryOutbound:
		c.held = c.held.Sub(t.tx.Shares)
	case TransferIn, TransferOut:
		// excluded, net zero across the client.
	default:
		return fmt.Errorf("unsupported portfolio transaction type %q", t.tx.Type)
	}
	return nil
}

// Held returns the shares held after the last processed item.
func (c *sharesCalculation) Held() Quantity { return c.held }
