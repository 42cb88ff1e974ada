package performance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Position is one holding of a portfolio at a valuation date.
type Position struct {
	Security *Security
	Shares   Quantity
	Value    Money // market value in the security's currency
}

// PositionProvider supplies the mark-to-market positions of a portfolio at
// a date, used to materialize the boundary valuations of the interval.
type PositionProvider interface {
	PositionsAt(p *Portfolio, on Date) []Position
}

// Snapshot holds one performance record per security that had any activity
// inside the reporting interval. It is built once per
// (client, converter, interval) and discarded after use; records compute
// their metrics lazily.
type Snapshot struct {
	interval Range
	warns    *Warnings
	records  []*Record
	bySec    map[*Security]*Record
}

// NewSnapshot assembles, per security, the full timeline of events across
// every account and portfolio of the client: position-changing transactions
// inside the interval, security-tagged cash flows, and one valuation per
// portfolio holding a position at each interval boundary. Securities with
// an empty timeline are discarded.
//
// The positions provider may be nil, in which case no boundary valuations
// are attached and only flows inside the interval are measured. The
// warnings collector may be nil, a fresh one is created.
func NewSnapshot(client *Client, conv CurrencyConverter, interval Range, positions PositionProvider, warns *Warnings) (*Snapshot, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}
	if conv == nil {
		return nil, errors.New("currency converter is nil")
	}
	if err := ValidateCurrency(conv.Term()); err != nil {
		return nil, fmt.Errorf("invalid term currency: %w", err)
	}
	if warns == nil {
		warns = NewWarnings()
	}

	timelines := make(map[*Security][]lineItem, len(client.Securities()))
	for _, sec := range client.Securities() {
		timelines[sec] = nil
	}

	// Index the transfer halves by their shared cross-entry reference to
	// resolve, for each transfer-in, the portfolio its shares came from.
	counterparts := transferCounterparts(client)

	for _, account := range client.Accounts() {
		for i := range account.Transactions() {
			tx := &account.Transactions()[i]
			if tx.Security == nil || !interval.Contains(DateOf(tx.When)) {
				continue
			}
			if _, known := timelines[tx.Security]; !known {
				continue
			}
			var item lineItem
			if tx.Type == Dividends {
				item = newDividendItem(tx, account)
			} else {
				item = &cashItem{tx: tx, account: account}
			}
			timelines[tx.Security] = append(timelines[tx.Security], item)
		}
	}

	for _, portfolio := range client.Portfolios() {
		for i := range portfolio.Transactions() {
			tx := &portfolio.Transactions()[i]
			if tx.Security == nil || !interval.Contains(DateOf(tx.When)) {
				continue
			}
			if _, known := timelines[tx.Security]; !known {
				continue
			}
			item := &transactionItem{tx: tx, portfolio: portfolio}
			if tx.Type == TransferIn {
				item.counterpart = counterparts[tx.CrossEntry][portfolio]
			}
			timelines[tx.Security] = append(timelines[tx.Security], item)
		}

		if positions == nil {
			continue
		}
		for _, pos := range positions.PositionsAt(portfolio, interval.From) {
			if pos.Shares.IsZero() {
				continue
			}
			if _, known := timelines[pos.Security]; !known {
				continue
			}
			timelines[pos.Security] = append(timelines[pos.Security], &valuationAtStart{
				portfolio: portfolio,
				at:        interval.From.Time(),
				shares:    pos.Shares,
				value:     pos.Value,
			})
		}
		for _, pos := range positions.PositionsAt(portfolio, interval.To) {
			if pos.Shares.IsZero() {
				continue
			}
			if _, known := timelines[pos.Security]; !known {
				continue
			}
			timelines[pos.Security] = append(timelines[pos.Security], &valuationAtEnd{
				portfolio: portfolio,
				at:        interval.To.Time(),
				shares:    pos.Shares,
				value:     pos.Value,
			})
		}
	}

	s := &Snapshot{
		interval: interval,
		warns:    warns,
		bySec:    make(map[*Security]*Record),
	}
	// Keep the client's registration order, results are deterministic.
	for _, sec := range client.Securities() {
		items := timelines[sec]
		if len(items) == 0 {
			continue
		}
		sortTimeline(items)
		record := newRecord(sec, conv, warns, items)
		s.records = append(s.records, record)
		s.bySec[sec] = record
	}
	return s, nil
}

// transferCounterparts maps each cross-entry reference to, per portfolio,
// the other portfolio of the pair.
func transferCounterparts(client *Client) map[uuid.UUID]map[*Portfolio]*Portfolio {
	owners := make(map[uuid.UUID][]*Portfolio)
	for _, portfolio := range client.Portfolios() {
		for _, tx := range portfolio.Transactions() {
			if tx.CrossEntry == uuid.Nil {
				continue
			}
			owners[tx.CrossEntry] = append(owners[tx.CrossEntry], portfolio)
		}
	}
	out := make(map[uuid.UUID]map[*Portfolio]*Portfolio, len(owners))
	for ref, ps := range owners {
		out[ref] = make(map[*Portfolio]*Portfolio, len(ps))
		for _, p := range ps {
			for _, q := range ps {
				if q != p {
					out[ref][p] = q
				}
			}
		}
	}
	return out
}

// Interval returns the reporting interval of the snapshot.
func (s *Snapshot) Interval() Range { return s.interval }

// Records returns one record per security with activity, in the client's
// security registration order.
func (s *Snapshot) Records() []*Record { return s.records }

// Record returns the record of one security, nil when the security had no
// activity in the interval.
func (s *Snapshot) Record(sec *Security) *Record { return s.bySec[sec] }

// Warnings returns the data inconsistencies collected so far. Metrics are
// lazy, so warnings keep accumulating until every record has been read or
// Compute has run.
func (s *Snapshot) Warnings() *Warnings { return s.warns }

// Compute forces every record's metrics, fanning the per-security work out
// over the given number of workers. Records share no state, no locking is
// needed beyond the fan-out itself. It returns the records' engine errors
// joined, nil when all ran clean.
func (s *Snapshot) Compute(workers int) error {
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, record := range s.records {
		wg.Add(1)
		sem <- struct{}{}
		go func(r *Record) {
			defer wg.Done()
			defer func() { <-sem }()
			r.materialize()
		}(record)
	}
	wg.Wait()

	var errs []error
	for _, record := range s.records {
		if err := record.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
