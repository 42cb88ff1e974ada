package performance

// Periodicity classifies how regularly a security pays dividends.
type Periodicity int

const (
	// NoDividends means no dividend payment was recorded in the interval.
	NoDividends Periodicity = iota
	// UnknownPeriodicity means payments exist but no regular pattern emerged.
	UnknownPeriodicity
	// Annual means payments arrive on average more than 300 days apart.
	Annual
	// SemiAnnual means payments arrive on average more than 150 days apart.
	SemiAnnual
	// Quarterly means payments arrive on average more than 75 days apart.
	Quarterly
)

func (p Periodicity) String() string {
	switch p {
	case NoDividends:
		return "none"
	case UnknownPeriodicity:
		return "unknown"
	case Annual:
		return "annual"
	case SemiAnnual:
		return "semiannual"
	case Quarterly:
		return "quarterly"
	default:
		return "unknown"
	}
}
