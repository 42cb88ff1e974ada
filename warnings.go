package performance

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Warning records one data inconsistency found while calculating, with
// enough context to locate the offending transaction.
type Warning struct {
	Security string
	When     time.Time
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.When.Format(DateFormat), w.Security, w.Message)
}

// Warnings collects data inconsistencies found during a calculation.
// Inconsistent import data (oversells, transfer shortfalls, residual lot
// value) is reported here and logged; it never aborts a calculation.
// A collector is scoped to one snapshot run; it is safe for use from the
// concurrent per-security passes.
type Warnings struct {
	log zerolog.Logger

	mu   sync.Mutex
	list []Warning
}

// NewWarnings creates a collector logging through the global zerolog logger.
func NewWarnings() *Warnings { return &Warnings{log: log.Logger} }

// NewWarningsWithLogger creates a collector logging through the given logger.
func NewWarningsWithLogger(logger zerolog.Logger) *Warnings { return &Warnings{log: logger} }

// List returns the collected warnings, in the order they were found.
func (w *Warnings) List() []Warning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Warning(nil), w.list...)
}

func (w *Warnings) addf(sec *Security, when time.Time, format string, args ...any) {
	warning := Warning{Security: sec.Name(), When: when, Message: fmt.Sprintf(format, args...)}
	w.mu.Lock()
	w.list = append(w.list, warning)
	w.mu.Unlock()
	w.log.Warn().
		Str("security", warning.Security).
		Time("when", warning.When).
		Msg(warning.Message)
}

// oversell reports a disposal of more shares than the open lots cover.
func (w *Warnings) oversell(sec *Security, when time.Time, short Quantity) {
	w.addf(sec, when, "oversell: %s shares have no matching lot", short)
}

// transferShortfall reports a transfer of more shares than the source holds.
func (w *Warnings) transferShortfall(sec *Security, when time.Time, short Quantity) {
	w.addf(sec, when, "transfer shortfall: %s shares have no matching lot in the source portfolio", short)
}

// residualValue reports lot value left open with no closing valuation.
func (w *Warnings) residualValue(sec *Security, when time.Time, value Money) {
	w.addf(sec, when, "position closed but %s of lot value remains unmatched", value)
}
