package performance

import "fmt"

// Security identifies an instrument and the currency it is denominated in.
// It is immutable for the duration of a calculation; the engine uses the
// pointer as the security's identity.
type Security struct {
	name string
	isin string
	cur  string
}

// NewSecurity creates a security. The isin may be empty for instruments
// without one (funds, private holdings).
func NewSecurity(name, isin, currency string) (*Security, error) {
	if name == "" {
		return nil, fmt.Errorf("security name is missing")
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, fmt.Errorf("security %q: %w", name, err)
	}
	return &Security{name: name, isin: isin, cur: currency}, nil
}

// Name returns the display name of the security.
func (s *Security) Name() string { return s.name }

// ISIN returns the security's ISIN, possibly empty.
func (s *Security) ISIN() string { return s.isin }

// Currency returns the ISO-4217 code the security is denominated in.
func (s *Security) Currency() string { return s.cur }

func (s *Security) String() string { return s.name }
