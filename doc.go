// Package performance computes per-security investment performance metrics
// for the securities held across the accounts and portfolios of a client,
// over an arbitrary reporting interval, in a single reporting currency.
//
// The core functionalities include:
//   - Timeline Assembly: collecting every event relevant to a security
//     (purchases, sales, deliveries, transfers, dividends, fees, taxes,
//     interest) into one chronologically ordered timeline, bracketed by
//     synthetic valuations at the interval boundaries.
//   - FIFO Capital Gains: matching disposals against acquisition lots in
//     first-in-first-out order, splitting lots on partial disposals and
//     transfers, and separating the currency-movement component of each
//     gain from the local price movement.
//   - Moving-Average Gains: a simpler alternative cost-basis method on a
//     single running average instead of discrete lots.
//   - Aggregate Metrics: cost basis, delta, internal rate of return,
//     dividend sum and periodicity, and shares held, each derived from a
//     single pass over the same timeline.
//
// The package is a library invoked in-process. It owns no file format and
// no command-line surface. Data inconsistencies in the imported history
// (such as selling more shares than are held) are reported through a
// warning collector and never abort a calculation.
package performance
