// Package batch runs many collations over one object's model outputs.
//
// A Runner holds an exclusive lock on the destination directory for the
// duration of a batch, checks that its directories are usable, and then
// collates every requested job on a bounded worker pool. Jobs share nothing:
// each builds its own parameter set and table and writes its own record, so
// one job's fatal error never affects another. Every attempted job leaves one
// ledger row when a ledger is attached.
package batch
