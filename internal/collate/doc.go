// Package collate runs the single-job collation pipeline.
//
// Stages run strictly in sequence: parse the job file, discover component
// files, load them, assemble the table, apply self-extinction, and write the
// record. Only a parse failure, a grid mismatch, or a write conflict stops a
// job; every other problem is recorded as a failure reason on the record.
// A Collator holds no per-job state, so one instance can serve many
// goroutines.
package collate
