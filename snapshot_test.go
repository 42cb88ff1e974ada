package performance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotFixture is a client with one active security, one idle one, a
// broker portfolio and a cash account covering a first half of 2025.
func snapshotFixture(t *testing.T) (*Client, *Security, *Security, *Portfolio, PositionProvider) {
	t.Helper()
	acme := testSecurity("ACME", "EUR")
	idle := testSecurity("Idle Corp", "EUR")
	broker := NewPortfolio("broker")
	main := NewAccount("main")

	broker.Append(
		PortfolioTransaction{When: on(2025, 1, 15), Type: Buy, Security: acme, Shares: Q(10), Amount: EUR(1000)},
		// outside the interval, must be ignored.
		PortfolioTransaction{When: on(2024, 12, 1), Type: Sell, Security: acme, Shares: Q(5), Amount: EUR(400)},
	)
	main.Append(
		AccountTransaction{When: on(2025, 3, 1), Type: Dividends, Security: acme, Amount: EUR(80), TaxWithheld: EUR(20), Shares: Q(10)},
		AccountTransaction{When: on(2025, 2, 1), Type: Fees, Security: acme, Amount: EUR(5)},
		// not tagged with a security, must be ignored.
		AccountTransaction{When: on(2025, 2, 1), Type: Interest, Amount: EUR(3)},
	)

	client := NewClient()
	client.AddSecurity(acme, idle)
	client.AddPortfolio(broker)
	client.AddAccount(main)

	positions := &mapPositions{positions: map[*Portfolio]map[Date][]Position{
		broker: {
			NewDate(2025, 6, 30): {{Security: acme, Shares: Q(10), Value: EUR(1200)}},
		},
	}}
	return client, acme, idle, broker, positions
}

func TestNewSnapshot(t *testing.T) {
	client, acme, idle, _, positions := snapshotFixture(t)
	interval := NewRange(NewDate(2025, 1, 1), NewDate(2025, 6, 30))

	s, err := NewSnapshot(client, NewRateTable("EUR"), interval, positions, nil)
	require.NoError(t, err)

	assert.Equal(t, interval, s.Interval())
	// the idle security had no activity, its record is discarded.
	require.Len(t, s.Records(), 1)
	assert.Nil(t, s.Record(idle))

	rec := s.Record(acme)
	require.NotNil(t, rec)
	assert.Same(t, acme, rec.Security())

	assert.True(t, rec.SharesHeld().Equal(Q(10)), "SharesHeld() = %v", rec.SharesHeld())
	assert.True(t, rec.FIFOCost().Equal(EUR(1000)), "FIFOCost() = %v", rec.FIFOCost())
	assert.True(t, rec.MarketValue().Equal(EUR(1200)), "MarketValue() = %v", rec.MarketValue())
	assert.True(t, rec.UnrealizedGains().Total().Equal(EUR(200)), "UnrealizedGains() = %v", rec.UnrealizedGains().Total())
	assert.True(t, rec.DividendSum().Equal(EUR(100)), "DividendSum() = %v", rec.DividendSum())
	assert.Equal(t, 1, rec.DividendCount())
	assert.True(t, rec.NetFees().Equal(EUR(5)), "NetFees() = %v", rec.NetFees())
	// -1000 buy + 80 net dividend - 5 fees + 1200 closing value.
	assert.True(t, rec.Delta().Equal(EUR(275)), "Delta() = %v", rec.Delta())

	assert.NoError(t, rec.Err())
	assert.Empty(t, s.Warnings().List())
}

func TestNewSnapshot_Validation(t *testing.T) {
	client, _, _, _, _ := snapshotFixture(t)
	interval := NewRange(NewDate(2025, 1, 1), NewDate(2025, 6, 30))

	_, err := NewSnapshot(nil, NewRateTable("EUR"), interval, nil, nil)
	assert.Error(t, err)

	_, err = NewSnapshot(client, nil, interval, nil, nil)
	assert.Error(t, err)

	_, err = NewSnapshot(client, NewRateTable("NOPE"), interval, nil, nil)
	assert.Error(t, err)
}

func TestNewSnapshot_NoPositionProvider(t *testing.T) {
	client, acme, _, _, _ := snapshotFixture(t)
	interval := NewRange(NewDate(2025, 1, 1), NewDate(2025, 6, 30))

	s, err := NewSnapshot(client, NewRateTable("EUR"), interval, nil, nil)
	require.NoError(t, err)

	// without boundary valuations only the flows are measured: the open
	// position has no closing value.
	rec := s.Record(acme)
	require.NotNil(t, rec)
	assert.True(t, rec.MarketValue().IsZero(), "MarketValue() = %v", rec.MarketValue())
	assert.True(t, rec.UnrealizedGains().Total().IsZero())
	assert.True(t, rec.FIFOCost().Equal(EUR(1000)), "FIFOCost() = %v", rec.FIFOCost())
}

func TestSnapshot_ResolvesTransfers(t *testing.T) {
	acme := testSecurity("ACME", "EUR")
	a := NewPortfolio("a")
	b := NewPortfolio("b")

	a.Append(PortfolioTransaction{When: on(2025, 1, 15), Type: Buy, Security: acme, Shares: Q(10), Amount: EUR(1000)})
	Transfer(a, b, on(2025, 3, 1), acme, Q(10))

	client := NewClient()
	client.AddSecurity(acme)
	client.AddPortfolio(a, b)

	positions := &mapPositions{positions: map[*Portfolio]map[Date][]Position{
		b: {NewDate(2025, 6, 30): {{Security: acme, Shares: Q(10), Value: EUR(1100)}}},
	}}
	interval := NewRange(NewDate(2025, 1, 1), NewDate(2025, 6, 30))

	s, err := NewSnapshot(client, NewRateTable("EUR"), interval, positions, nil)
	require.NoError(t, err)

	rec := s.Record(acme)
	require.NotNil(t, rec)
	assert.True(t, rec.RealizedGains().Total().IsZero(), "RealizedGains() = %v", rec.RealizedGains().Total())
	assert.True(t, rec.UnrealizedGains().Total().Equal(EUR(100)), "UnrealizedGains() = %v", rec.UnrealizedGains().Total())
	assert.Empty(t, s.Warnings().List())
}

func TestSnapshot_Compute(t *testing.T) {
	client, acme, _, broker, positions := snapshotFixture(t)
	interval := NewRange(NewDate(2025, 1, 1), NewDate(2025, 6, 30))

	s, err := NewSnapshot(client, NewRateTable("EUR"), interval, positions, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Compute(4))

	// a corrupt transaction type fails its security's record, Compute
	// surfaces the error and leaves the rest intact.
	broker.Append(PortfolioTransaction{When: on(2025, 4, 1), Type: PortfolioTransactionType("weird"), Security: acme, Shares: Q(1)})
	s, err = NewSnapshot(client, NewRateTable("EUR"), interval, positions, nil)
	require.NoError(t, err)

	err = s.Compute(4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weird")
	assert.Error(t, s.Record(acme).Err())
}

func TestSnapshot_Deterministic(t *testing.T) {
	interval := NewRange(NewDate(2025, 1, 1), NewDate(2025, 6, 30))

	type metrics struct {
		Realized   Money
		Unrealized Money
		Cost       Money
		Shares     Quantity
		Delta      Money
		IRR        float64
	}
	measure := func() metrics {
		client, acme, _, _, positions := snapshotFixture(t)
		s, err := NewSnapshot(client, NewRateTable("EUR"), interval, positions, nil)
		require.NoError(t, err)
		rec := s.Record(acme)
		require.NotNil(t, rec)
		return metrics{
			Realized:   rec.RealizedGains().Total(),
			Unrealized: rec.UnrealizedGains().Total(),
			Cost:       rec.FIFOCost(),
			Shares:     rec.SharesHeld(),
			Delta:      rec.Delta(),
			IRR:        rec.IRR(),
		}
	}

	opts := []cmp.Option{
		cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
		cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	}
	if diff := cmp.Diff(measure(), measure(), opts...); diff != "" {
		t.Errorf("two identical runs diverged (-first +second):\n%s", diff)
	}
}
