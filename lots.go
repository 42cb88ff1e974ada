package performance

import "time"

// lot is a block of shares with a fixed acquisition date and converted cost,
// consumed first-in-first-out on disposal.
type lot struct {
	date      time.Time
	portfolio *Portfolio
	shares    Quantity // remaining quantity
	original  Quantity // quantity at creation, for fractional attribution
	value     Money    // remaining cost basis in term currency
	fromStart bool     // created by the interval-start valuation
	touched   bool     // partially consumed at least once
}

// portion is the fraction of a lot consumed by one disposal or transfer.
type portion struct {
	lot    *lot
	shares Quantity
	cost   Money // proportional share of the lot's remaining cost basis
}

// lotList holds the open lots of one security, in creation order.
type lotList struct {
	lots []*lot
}

func (l *lotList) push(x *lot) { l.lots = append(l.lots, x) }

// consume matches a disposal of n shares against the open lots belonging to
// the given portfolio, in creation order. It returns the consumed portions
// and the quantity that no lot could cover. Each portion's cost is the
// proportional share of the lot's remaining value; consuming a whole lot
// takes its exact remaining value, so rounding drift never accumulates.
func (l *lotList) consume(owner *Portfolio, n Quantity) (portions []portion, short Quantity) {
	for _, x := range l.lots {
		if !n.IsPositive() {
			break
		}
		if x.portfolio != owner || !x.shares.IsPositive() {
			continue
		}
		take := x.shares.Min(n)
		var cost Money
		if take.Equal(x.shares) {
			cost = x.value
		} else {
			cost = x.value.Split(take, x.shares)
			x.touched = true
		}
		x.shares = x.shares.Sub(take)
		x.value = x.value.Sub(cost)
		portions = append(portions, portion{lot: x, shares: take, cost: cost})
		n = n.Sub(take)
	}
	return portions, n
}

// relocate moves consumed portions into the destination portfolio: each
// becomes a new lot keeping its acquisition date and proportional cost.
// Relocated lots are never eligible for squashing.
func (l *lotList) relocate(dest *Portfolio, portions []portion) {
	for _, p := range portions {
		l.push(&lot{
			date:      p.lot.date,
			portfolio: dest,
			shares:    p.shares,
			original:  p.shares,
			value:     p.cost,
			touched:   true,
		})
	}
}

// open returns the lots with remaining shares, in creation order.
func (l *lotList) open() []*lot {
	var out []*lot
	for _, x := range l.lots {
		if x.shares.IsPositive() {
			out = append(out, x)
		}
	}
	return out
}

// totalValue sums the remaining cost basis across all open lots.
func (l *lotList) totalValue() Money {
	var total Money
	for _, x := range l.open() {
		total = total.Add(x.value)
	}
	return total
}

// totalShares sums the remaining shares across all open lots.
func (l *lotList) totalShares() Quantity {
	var total Quantity
	for _, x := range l.open() {
		total = total.Add(x.shares)
	}
	return total
}

// squash merges the untouched interval-start lots into one, avoiding
// redundant currency conversions and fragmented provenance when computing
// unrealized forex gains. Only lots never partially consumed are eligible.
func (l *lotList) squash() {
	var first *lot
	kept := l.lots[:0]
	for _, x := range l.lots {
		if !x.fromStart || x.touched || !x.shares.IsPositive() {
			kept = append(kept, x)
			continue
		}
		if first == nil {
			first = x
			kept = append(kept, x)
			continue
		}
		first.shares = first.shares.Add(x.shares)
		first.original = first.original.Add(x.original)
		first.value = first.value.Add(x.value)
	}
	l.lots = kept
}
