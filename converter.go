package performance

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CurrencyConverter converts monetary amounts into a single term currency
// using historical, date-indexed rates.
type CurrencyConverter interface {
	// Term returns the currency all results are expressed in.
	Term() string
	// Rate returns the value of 1 unit of the given currency in the term
	// currency, using the last known rate on or before the given date.
	Rate(on Date, currency string) decimal.Decimal
	// Convert converts an amount into the term currency at the given date.
	Convert(on Date, amount Money) Money
	// At returns a conversion function pinned to one date.
	At(on Date) func(Money) Money
	// With returns a converter over the same rates pinned to another term currency.
	With(term string) CurrencyConverter
}

type ratePoint struct {
	Date Date
	Rate decimal.Decimal
}

// RateTable is a CurrencyConverter backed by an in-memory table of
// historical rates. Each series quotes the value of 1 unit of a foreign
// currency in the table's term currency.
type RateTable struct {
	term  string
	rates map[string][]ratePoint // per foreign currency, sorted by date
}

// NewRateTable creates an empty rate table for the given term currency.
func NewRateTable(term string) *RateTable {
	return &RateTable{term: term, rates: make(map[string][]ratePoint)}
}

// Add records the rate of one unit of currency in the term currency on a date.
func (t *RateTable) Add(currency string, on Date, rate decimal.Decimal) {
	series := append(t.rates[currency], ratePoint{Date: on, Rate: rate})
	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	t.rates[currency] = series
}

// Term returns the term currency of the table.
func (t *RateTable) Term() string { return t.term }

// Rate returns the last known rate on or before the given date.
// An unknown currency converts at par; the engine stays total over
// incomplete rate data and callers are expected to supply the rates that
// matter to them.
func (t *RateTable) Rate(on Date, currency string) decimal.Decimal {
	if currency == t.term || currency == "" {
		return decimal.NewFromInt(1)
	}
	if r, ok := lastAt(t.rates[currency], on); ok {
		return r
	}
	return decimal.NewFromInt(1)
}

func lastAt(series []ratePoint, on Date) (decimal.Decimal, bool) {
	i := sort.Search(len(series), func(i int) bool { return series[i].Date.After(on) })
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return series[i-1].Rate, true
}

// Convert converts an amount into the term currency at the given date.
func (t *RateTable) Convert(on Date, amount Money) Money {
	if amount.Currency() == t.term || amount.Currency() == "" {
		return M(amount.value, t.term)
	}
	rate := t.Rate(on, amount.Currency())
	return M(amount.value.Mul(rate), t.term)
}

// At returns a conversion function pinned to one date.
func (t *RateTable) At(on Date) func(Money) Money {
	return func(m Money) Money { return t.Convert(on, m) }
}

// With returns a converter over the same rate series pinned to another term
// currency. Rates to the new term are derived by crossing through the
// original term currency.
func (t *RateTable) With(term string) CurrencyConverter {
	if term == t.term {
		return t
	}
	return &crossTable{base: t, term: term}
}

// crossTable derives rates to a different term currency by crossing
// through its base table's term.
type crossTable struct {
	base *RateTable
	term string
}

func (c *crossTable) Term() string { return c.term }

func (c *crossTable) Rate(on Date, currency string) decimal.Decimal {
	if currency == c.term {
		return decimal.NewFromInt(1)
	}
	// value of currency in base term, divided by value of the new term in base term.
	termRate := c.base.Rate(on, c.term)
	if termRate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return c.base.Rate(on, currency).Div(termRate)
}

func (c *crossTable) Convert(on Date, amount Money) Money {
	if amount.Currency() == c.term || amount.Currency() == "" {
		return M(amount.value, c.term)
	}
	return M(amount.value.Mul(c.Rate(on, amount.Currency())), c.term)
}

func (c *crossTable) At(on Date) func(Money) Money {
	return func(m Money) Money { return c.Convert(on, m) }
}

func (c *crossTable) With(term string) CurrencyConverter { return c.base.With(term) }

// rateFile is the yaml shape of a rate table fixture. Rates decode through
// a string so the decimal value survives exactly as written.
type rateFile struct {
	Term  string                `yaml:"term"`
	Rates map[string][]yamlRate `yaml:"rates"`
}

type yamlRate struct {
	Date Date   `yaml:"date"`
	Rate string `yaml:"rate"`
}

// ParseRateTable reads a rate table from its yaml representation:
//
//	term: EUR
//	rates:
//	  USD:
//	    - {date: 2025-01-02, rate: 0.95}
func ParseRateTable(data []byte) (*RateTable, error) {
	var f rateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid rate table: %w", err)
	}
	if err := ValidateCurrency(f.Term); err != nil {
		return nil, fmt.Errorf("invalid rate table term: %w", err)
	}
	t := NewRateTable(f.Term)
	for currency, series := range f.Rates {
		if err := ValidateCurrency(currency); err != nil {
			return nil, fmt.Errorf("invalid rate table series: %w", err)
		}
		for _, p := range series {
			rate, err := decimal.NewFromString(p.Rate)
			if err != nil {
				return nil, fmt.Errorf("invalid rate for %s on %s: %w", currency, p.Date, err)
			}
			t.Add(currency, p.Date, rate)
		}
	}
	return t, nil
}

// LoadRateTable reads a yaml rate table from a file.
func LoadRateTable(path string) (*RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read rate table: %w", err)
	}
	return ParseRateTable(data)
}
