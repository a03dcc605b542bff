// Package services defines shared utilities consumed by the collation stages
// and the batch driver.
//
// Key responsibilities:
//   - Context helpers that stamp object names, job identifiers, stage names,
//     and batch identifiers for logging.
//   - The collation error taxonomy plus the Wrap helper so callers can tell
//     job-fatal failures from degradations with errors.Is.
//
// Use these helpers when wiring new stage logic so error classification and
// observability stay uniform across the pipeline.
package services
