package performance

import "sort"

// Ordering ranks used at equal timestamps: inbound items must precede
// outbound ones so that a same-day buy is available to match a same-day
// sell, and neutral cash items sit in between.
const (
	rankInbound = iota
	rankNeutral
	rankOutbound
)

func rank(item lineItem) int {
	switch x := item.(type) {
	case *valuationAtStart:
		return rankInbound
	case *valuationAtEnd:
		return rankOutbound
	case *transactionItem:
		if x.tx.Type.inbound() {
			return rankInbound
		}
		return rankOutbound
	default:
		return rankNeutral
	}
}

// compareItems produces a strict weak ordering over timeline items:
// valuation-at-start first and valuation-at-end last regardless of
// timestamp, then by timestamp, then inbound before outbound.
func compareItems(a, b lineItem) int {
	_, aStart := a.(*valuationAtStart)
	_, bStart := b.(*valuationAtStart)
	if aStart != bStart {
		if aStart {
			return -1
		}
		return 1
	}
	_, aEnd := a.(*valuationAtEnd)
	_, bEnd := b.(*valuationAtEnd)
	if aEnd != bEnd {
		if aEnd {
			return 1
		}
		return -1
	}
	if wa, wb := a.when(), b.when(); !wa.Equal(wb) {
		if wa.Before(wb) {
			return -1
		}
		return 1
	}
	return rank(a) - rank(b)
}

// sortTimeline orders items with compareItems. The sort is stable so that
// ties beyond the comparator keep insertion order, making results
// deterministic for identical inputs.
func sortTimeline(items []lineItem) {
	sort.SliceStable(items, func(i, j int) bool { return compareItems(items[i], items[j]) < 0 })
}
