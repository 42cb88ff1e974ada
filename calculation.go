package performance

import "fmt"

// calculation is one pluggable computation over a security's ordered
// timeline. Engines embed noopCalculation and override the handlers they
// care about; visitTimeline drives the dispatch.
type calculation interface {
	start(sec *Security, conv CurrencyConverter, warns *Warnings)
	onValuationAtStart(v *valuationAtStart) error
	onTransaction(t *transactionItem) error
	onCash(c *cashItem) error
	onDividend(d *dividendItem) error
	onValuationAtEnd(v *valuationAtEnd) error
	finish() error
}

// noopCalculation implements every handler as a no-op.
type noopCalculation struct{}

func (noopCalculation) onValuationAtStart(*valuationAtStart) error { return nil }
func (noopCalculation) onTransaction(*transactionItem) error       { return nil }
func (noopCalculation) onCash(*cashItem) error                     { return nil }
func (noopCalculation) onDividend(*dividendItem) error             { return nil }
func (noopCalculation) onValuationAtEnd(*valuationAtEnd) error     { return nil }
func (noopCalculation) finish() error                              { return nil }

// visitTimeline runs one calculation over an ordered timeline. The set of
// timeline kinds is closed; an unmatched kind is a programming error, not a
// data error, and halts the calculation for this security.
func visitTimeline(c calculation, sec *Security, conv CurrencyConverter, warns *Warnings, items []lineItem) error {
	c.start(sec, conv, warns)
	for _, item := range items {
		var err error
		switch x := item.(type) {
		case *valuationAtStart:
			err = c.onValuationAtStart(x)
		case *transactionItem:
			err = c.onTransaction(x)
		case *dividendItem:
			err = c.onDividend(x)
		case *cashItem:
			err = c.onCash(x)
		case *valuationAtEnd:
			err = c.onValuationAtEnd(x)
		default:
			err = fmt.Errorf("unsupported timeline item %T", item)
		}
		if err != nil {
			return fmt.Errorf("security %s: %w", sec.Name(), err)
		}
	}
	if err := c.finish(); err != nil {
		return fmt.Errorf("security %s: %w", sec.Name(), err)
	}
	return nil
}

// calcBase carries the per-run context every engine needs.
type calcBase struct {
	sec   *Security
	conv  CurrencyConverter
	warns *Warnings
}

func (b *calcBase) start(sec *Security, conv CurrencyConverter, warns *Warnings) {
	b.sec, b.conv, b.warns = sec, conv, warns
}
