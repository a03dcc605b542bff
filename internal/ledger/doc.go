// Package ledger persists per-job batch outcomes in SQLite.
//
// Every job a batch attempts leaves exactly one row: ok when the record was
// written clean, degraded when it was written with failure reasons, fatal
// when no record was written. The ledger backs the history command and lets
// a later batch find what an earlier one left behind.
package ledger
