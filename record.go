package performance

import (
	"sync"
	"time"
)

// Record exposes the computed performance metrics of one security over the
// reporting interval. Metrics are computed on first access and memoized;
// the cache is scoped to the record, one record belongs to exactly one
// snapshot run.
type Record struct {
	sec   *Security
	conv  CurrencyConverter
	warns *Warnings
	items []lineItem

	mu  sync.Mutex
	err error

	gainsOnce sync.Once
	gains     capitalGains

	avgOnce sync.Once
	avg     movingAverageGains

	costOnce sync.Once
	cost     costCalculation

	deltaOnce sync.Once
	delta     deltaCalculation

	irrOnce sync.Once
	irr     irrCalculation

	divOnce sync.Once
	div     dividendCalculation

	sharesOnce sync.Once
	shares     sharesCalculation
}

func newRecord(sec *Security, conv CurrencyConverter, warns *Warnings, items []lineItem) *Record {
	return &Record{sec: sec, conv: conv, warns: warns, items: items}
}

// Security returns the security this record describes.
func (r *Record) Security() *Security { return r.sec }

// Err returns the first engine failure, nil when all consumed engines ran
// clean. A non-nil error means the affected metrics read as zero.
func (r *Record) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Record) run(c calculation) {
	if err := visitTimeline(c, r.sec, r.conv, r.warns, r.items); err != nil {
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
}

func (r *Record) capitalGains() *capitalGains {
	r.gainsOnce.Do(func() { r.run(&r.gains) })
	return &r.gains
}

func (r *Record) movingAverage() *movingAverageGains {
	r.avgOnce.Do(func() { r.run(&r.avg) })
	return &r.avg
}

func (r *Record) costBasis() *costCalculation {
	r.costOnce.Do(func() { r.run(&r.cost) })
	return &r.cost
}

func (r *Record) dividends() *dividendCalculation {
	r.divOnce.Do(func() { r.run(&r.div) })
	return &r.div
}

// RealizedGains returns the FIFO gains crystallized by disposals inside the
// interval, with the forex component split out.
func (r *Record) RealizedGains() GainsRecord { return r.capitalGains().Realized() }

// UnrealizedGains returns the FIFO mark-to-market gains on the position
// still open at the interval end, with the forex component split out.
func (r *Record) UnrealizedGains() GainsRecord { return r.capitalGains().Unrealized() }

// RealizedGainsMovingAvg returns realized gains under the moving-average
// method. No forex component is attributed under this method.
func (r *Record) RealizedGainsMovingAvg() GainsRecord { return r.movingAverage().Realized() }

// UnrealizedGainsMovingAvg returns unrealized gains under the moving-average
// method. No forex component is attributed under this method.
func (r *Record) UnrealizedGainsMovingAvg() GainsRecord { return r.movingAverage().Unrealized() }

// MarketValue returns the converted market value at the interval end.
func (r *Record) MarketValue() Money { return r.capitalGains().MarketValue() }

// FIFOCost returns the FIFO cost of the shares held at the interval end.
func (r *Record) FIFOCost() Money { return r.costBasis().FIFOCost() }

// MovingAverageCost returns the moving-average cost of the shares held at
// the interval end.
func (r *Record) MovingAverageCost() Money { return r.costBasis().MovingAverageCost() }

// NetFees returns the fees paid inside the interval, net of refunds.
func (r *Record) NetFees() Money { return r.costBasis().NetFees() }

// NetTaxes returns the taxes paid inside the interval, net of refunds.
func (r *Record) NetTaxes() Money { return r.costBasis().NetTaxes() }

// SharesHeld returns the shares held at the interval end.
func (r *Record) SharesHeld() Quantity {
	r.sharesOnce.Do(func() { r.run(&r.shares) })
	return r.shares.Held()
}

// Delta returns the absolute gain over the interval: the signed sum of all
// cash flows bracketed by the boundary valuations.
func (r *Record) Delta() Money {
	r.deltaOnce.Do(func() { r.run(&r.delta) })
	return r.delta.Delta()
}

// IRR returns the internal rate of return of the position's cash flows,
// 0 when it is undefined.
func (r *Record) IRR() float64 {
	r.irrOnce.Do(func() { r.run(&r.irr) })
	return r.irr.Rate()
}

// DividendSum returns the gross dividends received inside the interval.
func (r *Record) DividendSum() Money { return r.dividends().Sum() }

// DividendCount returns the number of dividend payments inside the interval.
func (r *Record) DividendCount() int { return r.dividends().Count() }

// DividendPeriodicity classifies the regularity of the dividend payments.
func (r *Record) DividendPeriodicity() Periodicity { return r.dividends().Periodicity() }

// LastDividendPayment returns the date of the last payment, zero when none.
func (r *Record) LastDividendPayment() time.Time { return r.dividends().LastPayment() }

// PersonalDividendYield relates the gross dividends received to the FIFO
// cost of the position at the last payment, the cost each payment was
// actually earned on. Zero when there is no payment or no cost basis.
func (r *Record) PersonalDividendYield() float64 {
	div := r.dividends()
	if div.Count() == 0 {
		return 0
	}
	// the cost engine annotates each dividend item with the cost basis at
	// payment time.
	r.costBasis()
	var basis Money
	for _, item := range r.items {
		if d, ok := item.(*dividendItem); ok {
			basis = d.fifoCost
		}
	}
	if !basis.IsPositive() {
		return 0
	}
	return div.Sum().InexactFloat64() / basis.InexactFloat64()
}

// materialize forces every metric, used by Snapshot.Compute to warm records
// concurrently.
func (r *Record) materialize() {
	r.capitalGains()
	r.movingAverage()
	r.costBasis()
	r.dividends()
	r.SharesHeld()
	r.Delta()
	r.IRR()
}
