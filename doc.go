// Package capgain computes realized capital gains and losses for a ledger
// of asset purchase and sale transactions using first-in-first-out (FIFO)
// tax-lot matching.
//
// The core functionalities include:
//   - Ledger Management: recording validated buy/sell transactions in a
//     chronological, human-readable JSONL file.
//   - FIFO Lot Matching: pairing each sale against the oldest unmatched
//     purchases of the same asset, splitting partially filled lots pro rata
//     and routing uncovered ("margin") sales to a dedicated table.
//   - Holding Period Classification: bucketing each realized gain or loss
//     as short term or long term using a 365-day threshold.
//   - Aggregation: per-asset volume summaries and a per-calendar-year
//     summary of short/long-term gains and losses with a grand total.
//
// This package serves as the foundational logic for the `cgc` command-line
// tool; it performs no I/O of its own beyond the ledger codecs.
package capgain
